package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/chefhut/app/jobs"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/pkg/cache"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
	"github.com/shashiranjanraj/chefhut/pkg/payment"
	"github.com/shashiranjanraj/chefhut/pkg/queue"
	"github.com/shashiranjanraj/chefhut/pkg/schedule"
)

var queueWorkersFlag int

// bootWorkers wires the dependencies jobs need outside the main server
// process: store, cache-backed queue driver and the payment service.
func bootWorkers(ctx context.Context) error {
	if err := bootDB(ctx); err != nil {
		return err
	}
	if err := cache.Connect(); err == nil && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.PersistFailedTo(mongodb.Collection(mongodb.ColFailed))

	orderRepo := repositories.NewOrderRepository()
	gateway := payment.NewStripeGateway(config.StripeSecret())
	jobs.Configure(services.NewPaymentService(orderRepo, gateway, config.SiteDomain(), config.ExchangeRate()))
	return nil
}

// chefhut queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootWorkers(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background()) //nolint:errcheck

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

// chefhut schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootWorkers(ctx); err != nil {
			return err
		}
		defer mongodb.Disconnect(context.Background()) //nolint:errcheck

		jobs.RegisterSchedule()

		tasks := schedule.List()
		if len(tasks) == 0 {
			fmt.Println("No scheduled tasks registered.")
		} else {
			fmt.Println("Registered scheduled tasks:")
			for _, t := range tasks {
				fmt.Println("  •", t)
			}
		}

		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		schedule.Start(ctx)

		<-ctx.Done()
		fmt.Println("\nScheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
