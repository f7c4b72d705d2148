package services

import (
	"context"
	"fmt"
	"math"

	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/pkg/apperr"
	"github.com/shashiranjanraj/chefhut/pkg/collection"
	"github.com/shashiranjanraj/chefhut/pkg/event"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
	"github.com/shashiranjanraj/chefhut/pkg/payment"
)

// metadata key linking a checkout session back to its order. Older
// sessions used "foodId" for this even though the value is the order id;
// confirmation still reads both.
const (
	metaOrderID       = "orderId"
	metaLegacyOrderID = "foodId"
)

// PaymentOrderStore is the payment service's view of order persistence.
type PaymentOrderStore interface {
	FindByID(ctx context.Context, id string) (models.Order, error)
	SetCheckoutSession(ctx context.Context, id, sessionID string) error
	MarkPaid(ctx context.Context, id string) error
	ListUnreconciled(ctx context.Context, limit int64) ([]models.Order, error)
}

// PaymentService creates checkout sessions and reconciles their outcome
// onto orders.
type PaymentService struct {
	orders  PaymentOrderStore
	gateway payment.Gateway
	domain  string  // site domain for success/cancel redirects
	rate    float64 // BDT per USD
}

func NewPaymentService(orders PaymentOrderStore, gateway payment.Gateway, siteDomain string, exchangeRate float64) *PaymentService {
	return &PaymentService{orders: orders, gateway: gateway, domain: siteDomain, rate: exchangeRate}
}

// CheckoutInput describes the order being paid for.
type CheckoutInput struct {
	OrderID  string  `json:"foodId" validate:"required"`
	MealName string  `json:"mealName" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Price    float64 `json:"price" validate:"required"`
}

// CreateCheckoutSession converts the local price to gateway cents, opens a
// single-line-item session carrying the order id in metadata, records the
// session id on the order and returns the redirect URL.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (string, error) {
	if in.OrderID == "" || in.MealName == "" || in.Email == "" {
		return "", apperr.Validation("foodId, mealName and email are required")
	}

	cents := s.toCents(in.Price)
	if cents <= 0 {
		return "", apperr.Validation("invalid payment amount")
	}

	sess, err := s.gateway.CreateSession(payment.CheckoutParams{
		ProductName:   in.MealName,
		UnitAmount:    cents,
		Currency:      "usd",
		Quantity:      1,
		CustomerEmail: in.Email,
		SuccessURL:    fmt.Sprintf("%s/payment-success?session_id={CHECKOUT_SESSION_ID}", s.domain),
		CancelURL:     fmt.Sprintf("%s/payment-cancelled", s.domain),
		Metadata:      map[string]string{metaOrderID: in.OrderID},
	})
	if err != nil {
		return "", apperr.Internal("payment gateway unavailable", err)
	}

	// Best effort; the client-side confirm path works without it, the
	// reconcile sweep needs it.
	if err := s.orders.SetCheckoutSession(ctx, in.OrderID, sess.ID); err != nil {
		logger.Warn("could not record checkout session on order",
			"orderId", in.OrderID, "sessionId", sess.ID, "error", err)
	}

	logger.Info("checkout session created", "orderId", in.OrderID, "sessionId", sess.ID, "cents", cents)
	return sess.URL, nil
}

// ConfirmResult reports the reconciliation outcome for one session.
type ConfirmResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
}

// ConfirmPayment retrieves the session and, when the gateway reports it
// paid, overwrites the linked order's paymentStatus to Paid. The overwrite
// makes repeated confirmation of the same session a no-op; an unpaid
// session mutates nothing.
func (s *PaymentService) ConfirmPayment(ctx context.Context, sessionID string) (ConfirmResult, error) {
	if sessionID == "" {
		return ConfirmResult{}, apperr.Validation("session_id is required")
	}

	sess, err := s.gateway.RetrieveSession(sessionID)
	if err != nil {
		metrics.PaymentsConfirmed.WithLabelValues("error").Inc()
		return ConfirmResult{}, apperr.Internal("payment gateway unavailable", err)
	}

	orderID := sess.Metadata[metaOrderID]
	if orderID == "" {
		orderID = sess.Metadata[metaLegacyOrderID]
	}
	if orderID == "" {
		metrics.PaymentsConfirmed.WithLabelValues("error").Inc()
		return ConfirmResult{}, apperr.Internal("session carries no order reference", nil)
	}

	if !sess.Paid() {
		metrics.PaymentsConfirmed.WithLabelValues("unpaid").Inc()
		logger.Info("payment not settled", "sessionId", sessionID, "orderId", orderID,
			"status", sess.PaymentStatus)
		return ConfirmResult{Success: false, OrderID: orderID}, nil
	}

	if err := s.orders.MarkPaid(ctx, orderID); err != nil {
		metrics.PaymentsConfirmed.WithLabelValues("error").Inc()
		return ConfirmResult{}, err
	}

	metrics.PaymentsConfirmed.WithLabelValues("paid").Inc()
	event.Fire("payment.confirmed", orderID)
	logger.Info("payment confirmed", "sessionId", sessionID, "orderId", orderID)
	return ConfirmResult{Success: true, OrderID: orderID}, nil
}

// ReconcilePending finds orders still marked Pending that have a recorded
// checkout session and hands each one to enqueue for a server-side confirm.
// This closes the gap left by clients that never call back after paying.
func (s *PaymentService) ReconcilePending(ctx context.Context, enqueue func(sessionID string) error) (int, error) {
	metrics.ReconcileRuns.Inc()

	orders, err := s.orders.ListUnreconciled(ctx, 100)
	if err != nil {
		return 0, err
	}

	sessions := collection.Map(
		collection.Filter(orders, func(o models.Order) bool { return o.CheckoutSessionID != "" }),
		func(o models.Order) string { return o.CheckoutSessionID })

	dispatched := 0
	for _, sid := range sessions {
		if err := enqueue(sid); err != nil {
			logger.Error("reconcile: enqueue failed", "sessionId", sid, "error", err)
			continue
		}
		dispatched++
	}

	if dispatched > 0 {
		logger.Info("reconcile sweep dispatched", "count", dispatched)
	}
	return dispatched, nil
}

// toCents converts a BDT price to USD cents at the fixed exchange rate.
func (s *PaymentService) toCents(priceBDT float64) int64 {
	if s.rate <= 0 {
		return 0
	}
	return int64(math.Round(priceBDT / s.rate * 100))
}
