// Package jobs holds the queued background jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/queue"
	"github.com/shashiranjanraj/chefhut/pkg/schedule"
)

// paymentService is injected at boot; jobs are deserialized by the queue
// and cannot carry live dependencies in their payload.
var paymentService *services.PaymentService

// Configure wires the payment service into the job package and registers
// the job types. Call once before queue workers start.
func Configure(svc *services.PaymentService) {
	paymentService = svc
	queue.Register("jobs.ReconcilePaymentJob", func() queue.Job { return &ReconcilePaymentJob{} })
}

// RegisterSchedule registers the recurring reconcile sweep. It scans for
// orders that still carry a checkout session but were never confirmed and
// dispatches a ReconcilePaymentJob per session.
func RegisterSchedule() {
	schedule.Every(5).Minutes().
		Name("reconcile-payments").
		WithoutOverlapping().
		Run(func() {
			sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_, err := paymentService.ReconcilePending(sweepCtx, func(sessionID string) error {
				return queue.Dispatch(ReconcilePaymentJob{SessionID: sessionID})
			})
			if err != nil {
				logger.Error("reconcile sweep failed", "error", err)
			}
		})
}

// ReconcilePaymentJob re-runs payment confirmation for one checkout
// session. The scheduled sweep dispatches these for orders still marked
// Pending, so a paid session is settled even if the client never called
// back after the redirect.
type ReconcilePaymentJob struct {
	SessionID string `json:"sessionId"`
}

func (j ReconcilePaymentJob) Handle() error {
	if paymentService == nil {
		return fmt.Errorf("jobs: payment service not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := paymentService.ConfirmPayment(ctx, j.SessionID)
	return err
}
