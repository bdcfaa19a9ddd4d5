// Package api assembles the HTTP surface of the marketplace service.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"marketplace/internal/api/handlers"
)

type Handlers struct {
	Categories    *handlers.CategoryHandler
	Products      *handlers.ProductHandler
	Listings      *handlers.ListingHandler
	Orders        *handlers.OrderHandler
	Users         *handlers.UserHandler
	Ranks         *handlers.RankHandler
	Reviews       *handlers.ReviewHandler
	Notifications *handlers.NotificationHandler
}

func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.GetAll)
			r.Post("/", h.Categories.Create)
			r.Get("/{id}", h.Categories.GetByID)
			r.Put("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
			r.Put("/{id}/enable", h.Categories.Enable)
			r.Put("/{id}/disable", h.Categories.Disable)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.GetAll)
			r.Post("/", h.Products.Create)
			r.Get("/{id}", h.Products.GetByID)
			r.Put("/{id}", h.Products.Update)
			r.Delete("/{id}", h.Products.Delete)
			r.Put("/{id}/restock", h.Products.Restock)
			r.Get("/vendor/{id}", h.Products.GetByVendor)
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", h.Listings.GetAll)
			r.Post("/", h.Listings.Create)
			r.Get("/{id}", h.Listings.GetByID)
			r.Put("/{id}", h.Listings.Update)
			r.Delete("/{id}", h.Listings.Delete)
			r.Put("/{id}/ready", h.Listings.SetReady)
			r.Put("/{id}/delivered", h.Listings.SetDelivered)
			r.Get("/user/{id}", h.Listings.GetByUser)
			r.Get("/vendor/{id}", h.Listings.GetByVendor)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.GetAll)
			r.Post("/", h.Orders.Create)
			r.Get("/{id}", h.Orders.GetByID)
			r.Put("/{id}", h.Orders.Update)
			r.Delete("/{id}", h.Orders.Delete)
			r.Put("/{id}/cancel", h.Orders.Cancel)
			r.Put("/{id}/deliver", h.Orders.Deliver)
			r.Get("/customer/{id}", h.Orders.GetByCustomer)
		})

		r.Route("/cancelled-orders", func(r chi.Router) {
			r.Get("/", h.Orders.GetCancelled)
			r.Get("/customer/{id}", h.Orders.GetCancelledByCustomer)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.GetAll)
			r.Post("/", h.Users.Create)
			r.Post("/login", h.Users.Login)
			r.Get("/{id}", h.Users.GetByID)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})

		r.Route("/ranks", func(r chi.Router) {
			r.Get("/", h.Ranks.GetAll)
			r.Post("/", h.Ranks.Create)
			r.Get("/{id}", h.Ranks.GetByID)
			r.Get("/vendor/{id}", h.Ranks.GetByVendor)
			r.Get("/vendor/{id}/average", h.Ranks.GetVendorAverage)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.Reviews.GetAll)
			r.Post("/", h.Reviews.Create)
			r.Get("/{id}", h.Reviews.GetByID)
			r.Put("/{id}", h.Reviews.Update)
			r.Get("/vendor/{id}", h.Reviews.GetByVendor)
			r.Get("/user/{userId}/vendor/{vendorId}", h.Reviews.GetByUserAndVendor)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Route("/low-stock", func(r chi.Router) {
				r.Get("/{id}", h.Notifications.GetLowStock)
				r.Get("/all/{id}", h.Notifications.GetAllLowStock)
				r.Put("/{id}/read", h.Notifications.MarkLowStockRead)
			})
			r.Route("/order-cancel", func(r chi.Router) {
				r.Get("/{id}", h.Notifications.GetOrderCancel)
				r.Get("/all/{id}", h.Notifications.GetAllOrderCancel)
				r.Put("/{id}/read", h.Notifications.MarkOrderCancelRead)
			})
		})
	})

	return r
}
