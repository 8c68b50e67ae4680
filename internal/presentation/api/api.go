package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wordspy/wordspy/internal/infrastructure/configs"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
	"github.com/wordspy/wordspy/internal/infrastructure/ratelimiter"
	"github.com/wordspy/wordspy/internal/presentation/handler/health"
	"github.com/wordspy/wordspy/internal/presentation/handler/play"
)

type Application struct {
	Config        configs.HTTPConfig
	Logger        logging.Logger
	HealthHandler *health.Handler
	PlayHandler   *play.Handler
	RateLimiter   ratelimiter.Limiter
	Metrics       *metrics.Metrics
	Registry      *prometheus.Registry
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(app.enableCors)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", app.Config.Port)),
	))

	if app.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.HealthHandler.GetHealth)
		r.Get("/health/ready", app.HealthHandler.GetHealth)
		r.Get("/health/live", app.HealthHandler.GetHealth)

		// the websocket upgrade must stay outside the request timeout,
		// so only the plain REST routes get wrapped
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Post("/session", app.PlayHandler.CreateSessionHandler)
			r.Get("/room/{code}", app.PlayHandler.GetRoomHandler)
		})

		r.Get("/play", app.PlayHandler.PlayHandler)
	})

	return otelhttp.NewHandler(r, "wordspy-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	)
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.Config.Addr(),
		Handler:      mux,
		WriteTimeout: app.Config.WriteTimeout,
		ReadTimeout:  app.Config.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.Logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.Logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": app.Config.Addr(),
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.Logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": app.Config.Addr(),
	})

	return nil
}
