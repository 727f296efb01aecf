// Package service provides process-local implementations of the domain
// service collaborators (orders, stock, email, customers, analytics).
// They back tests and the example; production deployments implement the
// core interfaces against their own systems.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/intentmesh/core"
)

// InMemoryOrderService is a volatile core.OrderService. Safe for
// concurrent access; refund drafts are staged and only applied on
// confirmation.
type InMemoryOrderService struct {
	mu     sync.RWMutex
	orders map[string]core.Order
	drafts map[string]core.RefundDraft
}

// NewInMemoryOrderService seeds the service with the given orders.
func NewInMemoryOrderService(seed ...core.Order) *InMemoryOrderService {
	s := &InMemoryOrderService{
		orders: make(map[string]core.Order, len(seed)),
		drafts: make(map[string]core.RefundDraft),
	}
	for _, o := range seed {
		s.orders[o.ID] = o
	}
	return s
}

// Search implements core.OrderService with substring matching on id,
// customer id and customer email.
func (s *InMemoryOrderService) Search(_ context.Context, q core.OrderQuery) ([]core.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	text := strings.ToLower(q.Text)
	out := make([]core.Order, 0, limit)
	for _, o := range s.orders {
		if len(out) >= limit {
			break
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.CustomerID != "" && o.CustomerID != q.CustomerID {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(o.ID), text) &&
			!strings.Contains(strings.ToLower(o.CustomerID), text) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), text) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// Get implements core.OrderService.
func (s *InMemoryOrderService) Get(_ context.Context, orderID string) (*core.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	return &o, nil
}

// TrackShipment implements core.OrderService with synthesized tracking
// data derived from the order status.
func (s *InMemoryOrderService) TrackShipment(ctx context.Context, orderID string) (*core.Shipment, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Tracking == "" {
		return nil, fmt.Errorf("order %s has no shipment yet", orderID)
	}
	eta := ""
	if o.Status == "shipped" {
		eta = time.Now().Add(48 * time.Hour).Format("2006-01-02")
	}
	return &core.Shipment{
		OrderID:  o.ID,
		Carrier:  "DHL",
		Tracking: o.Tracking,
		Status:   o.Status,
		ETA:      eta,
	}, nil
}

// PrepareRefund implements core.OrderService. The draft is staged only;
// nothing is applied to the order.
func (s *InMemoryOrderService) PrepareRefund(_ context.Context, orderID string, amount float64, reason string) (*core.RefundDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if amount <= 0 || amount > o.Total {
		return nil, fmt.Errorf("refund amount %.2f is outside the order total %.2f", amount, o.Total)
	}
	draft := core.RefundDraft{
		ID:      "rd_" + uuid.NewString()[:8],
		OrderID: orderID,
		Amount:  amount,
		Reason:  reason,
	}
	s.drafts[draft.ID] = draft
	return &draft, nil
}

// ConfirmRefund implements core.OrderService, consuming the draft.
func (s *InMemoryOrderService) ConfirmRefund(_ context.Context, draftID string) (*core.Refund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[draftID]
	if !ok {
		return nil, fmt.Errorf("refund draft %s not found", draftID)
	}
	delete(s.drafts, draftID)

	o := s.orders[draft.OrderID]
	o.Status = "refunded"
	s.orders[draft.OrderID] = o

	return &core.Refund{
		ID:      "rf_" + uuid.NewString()[:8],
		OrderID: draft.OrderID,
		Amount:  draft.Amount,
		Status:  "refunded",
	}, nil
}

// InMemoryStockService is a volatile core.StockService.
type InMemoryStockService struct {
	mu     sync.RWMutex
	levels map[string]core.StockLevel
}

// NewInMemoryStockService seeds the service with the given levels.
func NewInMemoryStockService(seed ...core.StockLevel) *InMemoryStockService {
	s := &InMemoryStockService{levels: make(map[string]core.StockLevel, len(seed))}
	for _, lvl := range seed {
		s.levels[lvl.SKU] = lvl
	}
	return s
}

// Check implements core.StockService.
func (s *InMemoryStockService) Check(_ context.Context, sku string) (*core.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lvl, ok := s.levels[sku]
	if !ok {
		return nil, fmt.Errorf("unknown sku %s", sku)
	}
	return &lvl, nil
}

// Adjust implements core.StockService; levels never go negative.
func (s *InMemoryStockService) Adjust(_ context.Context, sku string, delta int, _ string) (*core.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lvl, ok := s.levels[sku]
	if !ok {
		return nil, fmt.Errorf("unknown sku %s", sku)
	}
	if lvl.Available+delta < 0 {
		return nil, fmt.Errorf("adjustment would drive sku %s negative", sku)
	}
	lvl.Available += delta
	s.levels[sku] = lvl
	return &lvl, nil
}

// InMemoryEmailService stages drafts in memory.
type InMemoryEmailService struct {
	mu     sync.Mutex
	Drafts []core.EmailDraft
}

// NewInMemoryEmailService creates an empty email service.
func NewInMemoryEmailService() *InMemoryEmailService {
	return &InMemoryEmailService{}
}

// Draft implements core.EmailService.
func (s *InMemoryEmailService) Draft(_ context.Context, to, subject, body string) (*core.EmailDraft, error) {
	if to == "" {
		return nil, fmt.Errorf("recipient must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := core.EmailDraft{
		ID:      "em_" + uuid.NewString()[:8],
		To:      to,
		Subject: subject,
		Body:    body,
	}
	s.Drafts = append(s.Drafts, draft)
	return &draft, nil
}

// InMemoryCustomerService is a volatile core.CustomerService backed by a
// customer list and an order service for purchase history.
type InMemoryCustomerService struct {
	customers []core.Customer
	orders    *InMemoryOrderService
}

// NewInMemoryCustomerService seeds the service.
func NewInMemoryCustomerService(orders *InMemoryOrderService, customers ...core.Customer) *InMemoryCustomerService {
	return &InMemoryCustomerService{customers: customers, orders: orders}
}

// Find implements core.CustomerService with substring matching on name
// and email.
func (s *InMemoryCustomerService) Find(_ context.Context, query string) ([]core.Customer, error) {
	q := strings.ToLower(query)
	out := make([]core.Customer, 0, 4)
	for _, c := range s.customers {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// RecentOrders implements core.CustomerService.
func (s *InMemoryCustomerService) RecentOrders(ctx context.Context, customerID string, limit int) ([]core.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.orders.Search(ctx, core.OrderQuery{CustomerID: customerID, Limit: limit})
}

// InMemoryAnalyticsService aggregates over an order service.
type InMemoryAnalyticsService struct {
	orders *InMemoryOrderService
}

// NewInMemoryAnalyticsService creates the service over the given orders.
func NewInMemoryAnalyticsService(orders *InMemoryOrderService) *InMemoryAnalyticsService {
	return &InMemoryAnalyticsService{orders: orders}
}

// SalesSummary implements core.AnalyticsService. The period is echoed
// back; the volatile store has no historical partitioning.
func (s *InMemoryAnalyticsService) SalesSummary(_ context.Context, period string) (*core.SalesSummary, error) {
	s.orders.mu.RLock()
	defer s.orders.mu.RUnlock()

	summary := &core.SalesSummary{Period: period, Currency: "EUR"}
	for _, o := range s.orders.orders {
		if o.Status == "cancelled" || o.Status == "refunded" {
			continue
		}
		summary.Orders++
		summary.Revenue += o.Total
	}
	return summary, nil
}
