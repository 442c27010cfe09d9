package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/mateh-lab/taskcast/pkg/domain/model/auth"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
	"github.com/mateh-lab/taskcast/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// Logger holds CLI flags for logger configuration
type Logger struct {
	level  string
	format string
	output string
}

// Flags returns CLI flags for logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TASKCAST_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console or json)",
			Value:       "console",
			Sources:     cli.EnvVars("TASKCAST_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output (stdout, stderr or file path)",
			Value:       "stdout",
			Sources:     cli.EnvVars("TASKCAST_LOG_OUTPUT"),
			Destination: &l.output,
		},
	}
}

// Configure builds the process-wide logger from the flags. The
// returned closer flushes and closes a file output; it is a no-op for
// stdout and stderr. Session secrets are redacted regardless of
// format.
func (l *Logger) Configure() (func(), error) {
	var w io.Writer
	closer := func() {}

	switch l.output {
	case "stdout", "":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(l.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", l.output))
		}
		w = f
		closer = func() {
			safe.Close(context.Background(), f)
		}
	}

	level, err := parseLevel(l.level)
	if err != nil {
		return nil, err
	}

	redact := masq.New(
		masq.WithType[auth.SessionSecret](),
		masq.WithFieldName("Secret"),
	)

	var handler slog.Handler
	switch l.format {
	case "console", "":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		return nil, goerr.New("invalid log format", goerr.V("format", l.format))
	}

	logging.SetDefault(slog.New(handler))

	return closer, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, goerr.New("invalid log level", goerr.V("level", s))
	}
}

// LogValue summarizes the configuration for startup logging without
// exposing anything sensitive.
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("output", l.output),
	)
}
