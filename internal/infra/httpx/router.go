package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Post("/items", handler.AddCartLine)
		r.Delete("/items/{index}", handler.RemoveCartLine)
		r.Patch("/items/{index}", handler.ChangeCartQuantity)
		r.Post("/checkout", handler.Checkout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrderByID)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", handler.ListCustomers)
		r.Get("/{phone}", handler.GetCustomerByPhone)
		r.Get("/{phone}/orders", handler.GetCustomerOrders)
		r.Get("/{phone}/total-spent", handler.GetCustomerTotalSpent)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", handler.FindMenuItems)
		r.Post("/", handler.CreateMenuItem)
		r.Get("/{id}", handler.GetMenuItemByID)
		r.Patch("/{id}", handler.UpdateMenuItem)
		r.Delete("/{id}", handler.DeleteMenuItem)
	})

	return r
}
