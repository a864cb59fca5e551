// Package server assembles the HTTP handler tree: Connect services,
// health and metrics endpoints, and the HTTP middleware around them.
package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/service"
	"github.com/mmynk/tripledger/internal/storage"
)

// Options configures NewHandler.
type Options struct {
	Store      storage.Store
	JWTManager *auth.JWTManager
	// Registry receives RPC metrics and is served on /metrics. Nil disables both.
	Registry *prometheus.Registry
}

// NewHandler returns the root handler, wrapped in h2c so Connect clients
// can use HTTP/2 without TLS.
func NewHandler(opts Options) http.Handler {
	interceptors := []connect.Interceptor{}
	if opts.Registry != nil {
		interceptors = append(interceptors, middleware.NewMetrics(opts.Registry).Interceptor())
	}
	interceptors = append(interceptors,
		middleware.LoggingInterceptor(),
		middleware.RequireAuth(opts.JWTManager),
	)
	handlerOpts := connect.WithInterceptors(interceptors...)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	tripPath, tripHandler := api.NewTripServiceHandler(service.NewTripService(opts.Store), handlerOpts)
	r.Handle(tripPath+"*", tripHandler)

	expensePath, expenseHandler := api.NewExpenseServiceHandler(service.NewExpenseService(opts.Store), handlerOpts)
	r.Handle(expensePath+"*", expenseHandler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	if opts.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{Registry: opts.Registry}))
	}

	return h2c.NewHandler(r, &http2.Server{})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
