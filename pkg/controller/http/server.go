package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mateh-lab/taskcast/pkg/usecase"
	"github.com/mateh-lab/taskcast/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	authUC        AuthUseCase
	dispatchRate  float64
	dispatchBurst int
}

type Options func(*Server)

// WithAuth sets the authentication use case. Without it every /api
// route except login responds 401.
func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

// WithDispatchRateLimit caps task dispatches per sender. Zero rate
// disables the limit.
func WithDispatchRateLimit(perSecond float64, burst int) Options {
	return func(s *Server) {
		s.dispatchRate = perSecond
		s.dispatchBurst = burst
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		authUC: uc.Auth,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authLoginHandler(s.authUC))
		r.Post("/logout", authLogoutHandler(s.authUC))
		r.Get("/me", authMeHandler(s.authUC))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/preview", previewHandler(s.uc))
			r.With(dispatchLimiter(s.dispatchRate, s.dispatchBurst)).
				Post("/", dispatchHandler(s.uc))
			r.Get("/inbox", inboxHandler(s.uc))
			r.Get("/sent", sentHandler(s.uc))
			r.Get("/unread-count", unreadCountHandler(s.uc))
			r.Post("/archive", bulkArchiveHandler(s.uc))

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", getTaskHandler(s.uc))
				r.Delete("/", retractHandler(s.uc))
				r.Post("/read", markReadHandler(s.uc))
				r.Post("/archive", archiveOneHandler(s.uc))
			})
		})

		r.Get("/members", membersHandler(s.uc))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
