package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/zapvendas/internal/infra/http/handlers"
	"github.com/xavierca1/zapvendas/internal/infra/http/middleware"
)

type routes struct {
	Health   *handlers.HealthHandler
	Leads    *handlers.LeadHandler
	Messages *handlers.MessageHandler
	Orders   *handlers.OrderHandler
	Limiter  *middleware.RateLimiter
}

func newRouter(rt routes, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(5 * time.Minute))

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", rt.Leads.List)
			r.Get("/stats", rt.Leads.Stats)
			r.Get("/{id}", rt.Leads.Get)
			r.Put("/{id}", rt.Leads.Update)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rt.Limiter.Handler)
				r.Post("/send", rt.Messages.Send)
				r.Post("/broadcast", rt.Messages.Broadcast)
			})
			r.Get("/history/{phoneNumber}", rt.Messages.History)
			r.Delete("/history/{phoneNumber}", rt.Messages.ClearHistory)
			r.Get("/status", rt.Messages.Status)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", rt.Orders.Create)
			r.Get("/{phoneNumber}", rt.Orders.ListByPhone)
			r.Put("/{orderId}/status", rt.Orders.UpdateStatus)
		})
	})

	return r
}
