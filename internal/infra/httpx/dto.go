package httpx

import (
	"time"

	"github.com/grillmate/pos/internal/pos/core/domain/entity"
)

type addCartLineRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
}

type cartLineResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	ItemsCount int                `json:"items_count"`
	Total      string             `json:"total"`
}

type orderResponse struct {
	ID            string             `json:"id"`
	OrderNumber   string             `json:"order_number"`
	Items         []cartLineResponse `json:"items"`
	Total         string             `json:"total"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"created_at"`
}

type customerResponse struct {
	Name       string   `json:"name"`
	PhoneNo    string   `json:"phone_no"`
	Orders     []string `json:"orders"`
	TotalSpent string   `json:"total_spent"`
	LastOrder  string   `json:"last_order"`
	CreatedAt  string   `json:"created_at"`
}

type totalSpentResponse struct {
	PhoneNo    string `json:"phone_no"`
	TotalSpent string `json:"total_spent"`
}

type menuItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Status   string `json:"status"`
}

type menuItemPatchRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Price    *string `json:"price"`
	Image    *string `json:"image"`
	Status   *string `json:"status"`
}

type menuItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapLines(lines []entity.CartLine) []cartLineResponse {
	out := make([]cartLineResponse, len(lines))
	for i, ln := range lines {
		out[i] = cartLineResponse{
			Name:     ln.Name,
			Price:    ln.Price.StringFixed(2),
			Quantity: ln.Quantity,
		}
	}
	return out
}

func mapOrder(o entity.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Items:         mapLines(o.Items),
		Total:         o.Total,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
	}
}

func mapOrders(orders []entity.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	return out
}

func mapCustomer(c entity.Customer) customerResponse {
	orders := c.Orders
	if orders == nil {
		orders = []string{}
	}
	return customerResponse{
		Name:       c.Name,
		PhoneNo:    c.PhoneNo,
		Orders:     orders,
		TotalSpent: c.TotalSpent,
		LastOrder:  c.LastOrder,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func mapMenuItem(it entity.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Category:  it.Category,
		Price:     it.Price.StringFixed(2),
		Image:     it.Image,
		Status:    it.Status,
		CreatedAt: it.CreatedAt.Format(time.RFC3339),
	}
	if !it.UpdatedAt.IsZero() {
		resp.UpdatedAt = it.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapMenuItems(items []entity.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, len(items))
	for i, it := range items {
		out[i] = mapMenuItem(it)
	}
	return out
}
