// Package httpx exposes the store layer over HTTP: the cashier screen
// drives the cart and checkout endpoints, the admin screen drives the
// menu, order and customer endpoints.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
	"github.com/grillmate/pos/internal/pos/core/ports"
)

// Handler routes HTTP requests into the store layer.
type Handler struct {
	cart      ports.Cart
	orders    ports.Orders
	customers ports.Customers
	menu      ports.Menu
	checkout  ports.Checkout
}

// NewHandler wires the handler to the store ports.
func NewHandler(cart ports.Cart, orders ports.Orders, customers ports.Customers, menu ports.Menu, checkout ports.Checkout) *Handler {
	return &Handler{
		cart:      cart,
		orders:    orders,
		customers: customers,
		menu:      menu,
		checkout:  checkout,
	}
}

// ── Cart ────────────────────────────────────────────────────────────────

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines := h.cart.Lines()
	totals := h.cart.Totals()
	writeJSON(w, http.StatusOK, cartResponse{
		Lines:      mapLines(lines),
		ItemsCount: totals.ItemsCount,
		Total:      totals.Total,
	})
}

func (h *Handler) AddCartLine(w http.ResponseWriter, r *http.Request) {
	var req addCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.cart.Add(r.Context(), req.Name, req.Price); err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	if err := h.cart.Remove(r.Context(), index); err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

func (h *Handler) ChangeCartQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req changeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := h.cart.ChangeQuantity(r.Context(), index, req.Delta); err != nil {
		writeDomainError(w, err)
		return
	}
	h.GetCart(w, r)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	slog.InfoContext(r.Context(), "checkout requested", "customer_phone", req.CustomerPhone)

	order, err := h.checkout.Checkout(r.Context(), req.CustomerName, req.CustomerPhone, req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// ── Orders ──────────────────────────────────────────────────────────────

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapOrders(h.orders.All()))
}

func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.ByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// ── Customers ───────────────────────────────────────────────────────────

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers := h.customers.All()
	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = mapCustomer(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCustomerByPhone(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.ByPhone(chi.URLParam(r, "phone"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(c))
}

func (h *Handler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapOrders(h.customers.OrdersOf(chi.URLParam(r, "phone"))))
}

func (h *Handler) GetCustomerTotalSpent(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	writeJSON(w, http.StatusOK, totalSpentResponse{
		PhoneNo:    phone,
		TotalSpent: h.customers.TotalSpent(phone),
	})
}

// ── Menu ────────────────────────────────────────────────────────────────

func (h *Handler) FindMenuItems(w http.ResponseWriter, r *http.Request) {
	query := entity.MenuQuery{
		Name:     r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	}
	writeJSON(w, http.StatusOK, mapMenuItems(h.menu.Find(query)))
}

func (h *Handler) GetMenuItemByID(w http.ResponseWriter, r *http.Request) {
	it, err := h.menu.ByID(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItem(it))
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	item := entity.MenuItem{
		Name:     req.Name,
		Category: req.Category,
		Image:    req.Image,
		Status:   req.Status,
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
			return
		}
		item.Price = price
	}

	created, err := h.menu.Create(r.Context(), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapMenuItem(created))
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	patch := entity.MenuPatch{
		Name:     req.Name,
		Category: req.Category,
		Image:    req.Image,
		Status:   req.Status,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
			return
		}
		patch.Price = &price
	}

	updated, err := h.menu.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapMenuItem(updated))
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ─────────────────────────────────────────────────────────────

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index", err.Error())
		return 0, false
	}
	return index, true
}

// writeDomainError maps the error taxonomy to HTTP statuses: validation
// → 400, not-found → 404, in-flight checkout → 409, persistence → 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation *entity.ValidationError
	var persistence *entity.PersistenceError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_failed", validation.Reason)
	case errors.Is(err, entity.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, entity.ErrCheckoutInFlight):
		writeError(w, http.StatusConflict, "checkout_in_flight", err.Error())
	case errors.As(err, &persistence):
		writeError(w, http.StatusInternalServerError, "persistence_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:   code,
		Message: msg,
	})
}
