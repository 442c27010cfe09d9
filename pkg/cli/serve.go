package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/mateh-lab/taskcast/pkg/cli/config"
	httpctrl "github.com/mateh-lab/taskcast/pkg/controller/http"
	"github.com/mateh-lab/taskcast/pkg/domain/types"
	"github.com/mateh-lab/taskcast/pkg/usecase"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
	"github.com/mateh-lab/taskcast/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthMemberID string
	var dispatchRate float64
	var dispatchBurst int
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKCAST_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified member ID (development only). Example: --no-auth=member-north-1",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKCAST_NO_AUTH"),
			Destination: &noAuthMemberID,
		},
		&cli.FloatFlag{
			Name:        "dispatch-rate",
			Usage:       "Max task dispatches per second per sender (0 disables the limit)",
			Value:       1,
			Sources:     cli.EnvVars("TASKCAST_DISPATCH_RATE"),
			Destination: &dispatchRate,
		},
		&cli.IntFlag{
			Name:        "dispatch-burst",
			Usage:       "Burst size for the dispatch rate limit",
			Value:       3,
			Sources:     cli.EnvVars("TASKCAST_DISPATCH_BURST"),
			Destination: &dispatchBurst,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			ucOpts := []usecase.Option{}
			if noAuthMemberID != "" {
				logging.Default().Warn("Running in no-auth mode (development only)",
					"member_id", noAuthMemberID)
				ucOpts = append(ucOpts,
					usecase.WithAuth(usecase.NewNoAuthnUseCase(repo, types.UserID(noAuthMemberID))))
			}

			uc := usecase.New(repo, ucOpts...)

			handler := httpctrl.New(uc,
				httpctrl.WithAuth(uc.Auth),
				httpctrl.WithDispatchRateLimit(dispatchRate, dispatchBurst),
			)
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
