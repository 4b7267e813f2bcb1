package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/polarbookshop/orderservice/internal/mw"
	"github.com/polarbookshop/orderservice/internal/service/order"
)

// NewRouter собирает HTTP маршруты сервиса заказов.
func NewRouter(svc *order.Service, jwtSecret string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(jwtSecret))

		r.Post("/orders", SubmitOrderHandler(svc))
		r.Get("/orders", ListOrdersHandler(svc))
	})

	return r
}
