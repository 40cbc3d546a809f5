package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DevLaukey/cesi-delivery-ms/internal/http/handlers"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/middleware"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/middleware/ratelimit"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// Everything under /deliveries and /couriers requires a bearer token; the
// write endpoints additionally pass through the rate limiter.
func New(
	base *handlers.Handlers,
	del *handlers.DeliveryHandler,
	cour *handlers.CourierHandler,
	logger logx.Logger,
	verifier middleware.TokenVerifier,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observability(logger))

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(logger, verifier))

		r.Route("/deliveries", func(r chi.Router) {
			r.Get("/available", del.Available)
			r.Get("/mine", del.History)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Handler())
				r.Post("/{orderID}/claim", del.Claim)
				r.Post("/{orderID}/pickup", del.Pickup)
				r.Post("/{orderID}/complete", del.Complete)
				r.Post("/{orderID}/reject", del.Reject)
			})
		})

		r.Route("/couriers", func(r chi.Router) {
			r.Get("/me", cour.Profile)
			r.Get("/me/stats", cour.Stats)
			r.Get("/me/earnings", cour.Earnings)

			r.Group(func(r chi.Router) {
				r.Use(limiter.Handler())
				r.Post("/", cour.Onboard)
				r.Patch("/me", cour.Update)
				r.Put("/me/availability", cour.Availability)
				r.Put("/me/location", cour.Location)
			})
		})
	})

	r.NotFound(http.HandlerFunc(base.NotFound))

	return r
}
