package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

// RouterOptions carries the transport-level dependencies of the router.
type RouterOptions struct {
	Logger         *slog.Logger
	JWTSecret      []byte
	JWTIssuer      string
	CORSOrigins    []string
	Redis          *redis.Client // nil disables Idempotency-Key handling
	IdempotencyTTL time.Duration
}

// NewRouter wires the account endpoints behind auth, CORS and access logging.
func NewRouter(svc LedgerService, opts RouterOptions) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(opts.CORSOrigins)))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(opts.JWTSecret, opts.JWTIssuer))

		if opts.Redis != nil {
			r.Use(Idempotency(opts.Redis, opts.IdempotencyTTL))
		}

		r.Get("/get-funds", h.GetFundsHandler)
		r.Get("/user-info", h.UserInfoHandler)
		r.Post("/add-funds", h.AddFundsHandler)
		r.Post("/withdraw-funds", h.WithdrawFundsHandler)
		r.Post("/toggle-playing-mode", h.TogglePlayingModeHandler)
		r.Post("/double", h.DoubleHandler)
		r.Post("/open-account", h.OpenAccountHandler)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:              slog.LevelInfo,
		LogRequestHeaders:  []string{},
		LogResponseHeaders: []string{},
		Skip: func(req *http.Request, _ int) bool {
			return req.URL.Path == "/healthz"
		},
		LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
			route := req.URL.Path
			if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			return []slog.Attr{
				slog.String("request_id", middleware.GetReqID(req.Context())),
				slog.String("route", route),
			}
		},
	})
}

func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))

	for _, o := range origins {
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", idempotencyKeyHeader},
		ExposedHeaders: []string{idempotentReplayHeader},
		MaxAge:         300,
	}
}
