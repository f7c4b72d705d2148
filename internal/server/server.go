// Package server boots the Chefhut backend: config, store, cache, queue,
// scheduler, dependency wiring and the HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/shashiranjanraj/chefhut/app/controllers"
	"github.com/shashiranjanraj/chefhut/app/jobs"
	"github.com/shashiranjanraj/chefhut/app/models"
	"github.com/shashiranjanraj/chefhut/app/repositories"
	"github.com/shashiranjanraj/chefhut/app/routes"
	"github.com/shashiranjanraj/chefhut/app/services"
	"github.com/shashiranjanraj/chefhut/config"
	"github.com/shashiranjanraj/chefhut/pkg/cache"
	"github.com/shashiranjanraj/chefhut/pkg/event"
	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
	"github.com/shashiranjanraj/chefhut/pkg/middleware"
	"github.com/shashiranjanraj/chefhut/pkg/mongodb"
	"github.com/shashiranjanraj/chefhut/pkg/payment"
	"github.com/shashiranjanraj/chefhut/pkg/queue"
	"github.com/shashiranjanraj/chefhut/pkg/reqid"
	"github.com/shashiranjanraj/chefhut/pkg/router"
	"github.com/shashiranjanraj/chefhut/pkg/schedule"
	"github.com/shashiranjanraj/chefhut/pkg/storage"
)

// Start boots everything and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mongodb.Connect(ctx); err != nil {
		return err
	}
	defer mongodb.Disconnect(context.Background()) //nolint:errcheck

	// Cache and storage degrade gracefully when unconfigured.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, running without it", "error", err)
	}
	storage.Connect()

	if config.Get("LOG_MONGO", "false") == "true" {
		mh := logger.NewMongoHandler(mongodb.Collection(mongodb.ColLogs))
		logger.AttachHandler(mh)
		defer mh.Close()
	}

	// Dependency wiring, repositories up to controllers.
	userRepo := repositories.NewUserRepository()
	requestRepo := repositories.NewRequestRepository()
	orderRepo := repositories.NewOrderRepository()
	mealRepo := repositories.NewMealRepository()
	favRepo := repositories.NewFavoriteRepository()
	reviewRepo := repositories.NewReviewRepository()

	gateway := payment.NewStripeGateway(config.StripeSecret())

	elevationSvc := services.NewElevationService(requestRepo, userRepo)
	orderSvc := services.NewOrderService(orderRepo)
	paymentSvc := services.NewPaymentService(orderRepo, gateway, config.SiteDomain(), config.ExchangeRate())
	mealSvc := services.NewMealService(mealRepo)
	userSvc := services.NewUserService(userRepo)
	favSvc := services.NewFavoriteService(favRepo)
	reviewSvc := services.NewReviewService(reviewRepo)
	authSvc := services.NewAuthService(userRepo)

	// Background work: jobs, workers, reconcile sweep.
	jobs.Configure(paymentSvc)
	queue.PersistFailedTo(mongodb.Collection(mongodb.ColFailed))
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, workerCount())

	jobs.RegisterSchedule()
	schedule.Start(ctx)

	registerListeners()

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		middleware.Recovery,
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	routes.RegisterAPI(r, routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc),
		Users:    controllers.NewUserController(userSvc),
		Meals:    controllers.NewMealController(mealSvc),
		Requests: controllers.NewRequestController(elevationSvc),
		Orders:   controllers.NewOrderController(orderSvc),
		Payments: controllers.NewPaymentController(paymentSvc),
		Favs:     controllers.NewFavoriteController(favSvc),
		Reviews:  controllers.NewReviewController(reviewSvc),
	})

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chefhut listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func workerCount() int {
	n, err := strconv.Atoi(config.Get("QUEUE_WORKERS", "4"))
	if err != nil || n < 1 {
		return 4
	}
	return n
}

// registerListeners hooks the domain events fired by services.
func registerListeners() {
	event.Listen("order.created", func(payload interface{}) {
		if o, ok := payload.(models.Order); ok {
			logger.Info("event: order created", "foodId", o.FoodID, "chefId", o.ChefID)
		}
	})
	event.Listen("payment.confirmed", func(payload interface{}) {
		if id, ok := payload.(string); ok {
			logger.Info("event: payment confirmed", "orderId", id)
		}
	})
	event.Listen("request.resolved", func(payload interface{}) {
		if req, ok := payload.(models.Request); ok {
			logger.Info("event: elevation request resolved",
				"email", req.UserEmail, "status", req.Status)
		}
	})
}
