package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ShopEase/internal/auth"
	"ShopEase/internal/catalog"
	"ShopEase/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	Auth    *auth.Store
	Catalog *catalog.Store
	JWT     *auth.TokenMaker
}

const readyTimeout = 2 * time.Second

// Pinger is anything readyz can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewHandler(deps Deps, httpDeps HTTPDeps) http.Handler {
	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}

	authSrv := &auth.Server{Log: httpDeps.Log, Store: deps.Auth, JWT: deps.JWT}
	catalogSrv := &catalog.Server{
		Store:        deps.Catalog,
		Log:          httpDeps.Log,
		RequireAdmin: auth.RequireAdmin(deps.JWT),
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(httpDeps.Log, map[string]Pinger{
		"auth":    deps.Auth,
		"catalog": deps.Catalog,
	}))

	r.Mount("/auth", authSrv.Routes())
	r.Mount("/", catalogSrv.Routes())

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		if deps.MetricsEnabled {
			deps.Log.Warn("metrics enabled but Registry is nil")
		}
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(log *zap.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				log.Warn("readyz failed", zap.String("dependency", name), zap.Error(err))
				kit.WriteError(w, r, http.StatusServiceUnavailable, name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}
