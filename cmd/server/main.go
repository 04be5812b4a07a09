package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"analog-alley-be/internal/address"
	"analog-alley-be/internal/api"
	"analog-alley-be/internal/cache"
	"analog-alley-be/internal/cart"
	"analog-alley-be/internal/checkout"
	"analog-alley-be/internal/config"
	"analog-alley-be/internal/db"
	"analog-alley-be/internal/guest"
	"analog-alley-be/internal/logger"
	"analog-alley-be/internal/messaging"
	"analog-alley-be/internal/messaging/kafka"
	"analog-alley-be/internal/middleware"
	"analog-alley-be/internal/order"
	"analog-alley-be/internal/pricing"
	"analog-alley-be/internal/product"
	"analog-alley-be/internal/wishlist"

	"go.uber.org/zap"
)

const orderEventsTopic = "orders.created"

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	redisClient := cache.InitRedis(cfg)
	defer redisClient.Close()

	var publisher messaging.Publisher = messaging.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, orderEventsTopic)
	}
	defer publisher.Close()

	engine := pricing.NewEngine(pricing.Policy{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
		TaxRate:               cfg.TaxRate,
	})

	productRepo := product.NewRepository(database)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	wishlistRepo := wishlist.NewRepository(database)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo)

	guestStore := guest.NewStore(redisClient)
	reconciler := guest.NewReconciler(guestStore, cartSvc, wishlistSvc)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc, addressSvc, engine, publisher)

	sessionStore := checkout.NewSessionStore(redisClient)
	checkoutSvc := checkout.NewService(
		sessionStore, cartSvc, addressSvc, orderSvc, engine,
		cfg.CheckoutSubmitTimeout,
	)

	handler := api.NewHandler(
		cartSvc, wishlistSvc, guestStore, reconciler,
		addressSvc, checkoutSvc, orderSvc,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	var root http.Handler = mux
	root = middleware.RateLimit(root)
	root = middleware.Auth(cfg.SecretKey, cfg.AuthBypass)(root)
	root = middleware.CORS(cfg.CORSOrigin)(root)
	root = logger.LoggingMiddleware(root)
	root = logger.RequestIDMiddleware(root)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
