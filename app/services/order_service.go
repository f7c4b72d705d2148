package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/event"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
)

// OrderStore is the order service's view of order persistence.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
	FindByID(ctx context.Context, id string) (models.Order, error)
	SetStatus(ctx context.Context, id, status string) error
	ListByChef(ctx context.Context, chefID string) ([]models.Order, error)
	ListByUser(ctx context.Context, email string) ([]models.Order, error)
}

// OrderService manages the order lifecycle.
type OrderService struct {
	orders OrderStore
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// Create persists a new order. Payment and order statuses default to
// Pending/pending when the caller omits them; orderTime is stamped here.
func (s *OrderService) Create(ctx context.Context, order models.Order) (*models.Order, string, error) {
	if order.UserEmail == "" || order.FoodID == "" || order.UserAddress == "" || order.ChefID == "" {
		return nil, "", apperr.Validation("userEmail, foodId, userAddress and chefId are required")
	}

	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentPending
	}
	if order.OrderStatus == "" {
		order.OrderStatus = models.OrderPending
	}
	if order.Quantity < 1 {
		order.Quantity = 1
	}
	order.OrderTime = time.Now()

	id, err := s.orders.Insert(ctx, &order)
	if err != nil {
		return nil, "", err
	}

	metrics.OrdersCreated.Inc()
	event.Fire("order.created", order)
	logger.Info("order created", "id", id, "email", order.UserEmail, "chefId", order.ChefID)
	return &order, id, nil
}

// SetStatus overwrites orderStatus after checking the value is one of the
// allowed statuses. Any status may follow any other; there is no
// transition graph, matching the permissive lifecycle this service keeps.
func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) error {
	if !models.ValidOrderStatus(status) {
		return apperr.Validation("orderStatus must be one of pending, accepted, delivered, cancelled")
	}
	if err := s.orders.SetStatus(ctx, orderID, status); err != nil {
		return err
	}
	metrics.OrderStatusChanges.WithLabelValues(status).Inc()
	return nil
}

// ListForChef returns orders assigned to chefID.
func (s *OrderService) ListForChef(ctx context.Context, chefID string) ([]models.Order, error) {
	if chefID == "" {
		return nil, apperr.Validation("chefId is required")
	}
	orders, err := s.orders.ListByChef(ctx, chefID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListForUser returns orders placed by email. An empty email returns all
// orders; authorization scoping belongs to the route layer.
func (s *OrderService) ListForUser(ctx context.Context, email string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
