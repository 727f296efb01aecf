package core

import (
	"context"
	"time"
)

// Domain service collaborators. The core never implements these; they are
// injected and reached exclusively from inside tool executors. Interfaces
// are kept narrow on purpose: each method maps onto exactly one tool.

// Order is a commerce order as exposed to tool executors.
type Order struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	Tracking      string    `json:"tracking,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderQuery narrows an order search.
type OrderQuery struct {
	Text       string
	CustomerID string
	Status     string
	Limit      int
}

// RefundDraft is a staged, unconfirmed refund. Nothing moves money until
// the draft is explicitly confirmed.
type RefundDraft struct {
	ID      string  `json:"id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Reason  string  `json:"reason,omitempty"`
}

// Refund is a confirmed refund.
type Refund struct {
	ID      string  `json:"id"`
	OrderID string  `json:"order_id"`
	Amount  float64 `json:"amount"`
	Status  string  `json:"status"`
}

// Shipment describes tracking progress for an order.
type Shipment struct {
	OrderID  string `json:"order_id"`
	Carrier  string `json:"carrier"`
	Tracking string `json:"tracking"`
	Status   string `json:"status"`
	ETA      string `json:"eta,omitempty"`
}

// OrderService exposes order lookup, shipment tracking and the two-phase
// refund flow.
type OrderService interface {
	Search(ctx context.Context, q OrderQuery) ([]Order, error)
	Get(ctx context.Context, orderID string) (*Order, error)
	TrackShipment(ctx context.Context, orderID string) (*Shipment, error)
	PrepareRefund(ctx context.Context, orderID string, amount float64, reason string) (*RefundDraft, error)
	ConfirmRefund(ctx context.Context, draftID string) (*Refund, error)
}

// StockLevel is the inventory position of one SKU.
type StockLevel struct {
	SKU       string `json:"sku"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
}

// StockService exposes inventory reads and adjustments.
type StockService interface {
	Check(ctx context.Context, sku string) (*StockLevel, error)
	Adjust(ctx context.Context, sku string, delta int, reason string) (*StockLevel, error)
}

// EmailDraft is a staged outbound email; sending is a separate concern
// outside this core.
type EmailDraft struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailService stages customer emails.
type EmailService interface {
	Draft(ctx context.Context, to, subject, body string) (*EmailDraft, error)
}

// Customer is a shopper account as exposed to tool executors.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerService exposes customer lookup and their recent orders.
type CustomerService interface {
	Find(ctx context.Context, query string) ([]Customer, error)
	RecentOrders(ctx context.Context, customerID string, limit int) ([]Order, error)
}

// SalesSummary aggregates revenue for a period.
type SalesSummary struct {
	Period   string  `json:"period"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	Currency string  `json:"currency"`
}

// AnalyticsService exposes aggregate reporting.
type AnalyticsService interface {
	SalesSummary(ctx context.Context, period string) (*SalesSummary, error)
}
