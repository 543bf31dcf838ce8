package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"vitrine/internal/config"
	creatorrepo "vitrine/internal/creator/repository"
	"vitrine/internal/infrastructure/logger"
	"vitrine/internal/infrastructure/mysql"
	"vitrine/internal/inventory"
	"vitrine/internal/notification"
	"vitrine/internal/order"
	"vitrine/internal/payment"
	"vitrine/internal/product"
	productcontroller "vitrine/internal/product/controller"
	"vitrine/internal/server"
	"vitrine/internal/shipping"
	shippingcontroller "vitrine/internal/shipping/controller"
	"vitrine/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	validate := validation.New()

	productModule := product.NewModule(db, validate, zapLogger)

	ledger := inventory.NewMySQLLedger(
		db,
		productModule.Repository,
		zapLogger,
		cfg.Order.PersistTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)

	shippingModule := shipping.NewModule(
		productModule.Service,
		creatorrepo.NewMySQLShippingConfigRepository(db),
		cfg.Shipping,
		zapLogger,
	)

	initiator, err := payment.NewModule(db, cfg.Payment, zapLogger)
	if err != nil {
		zapLogger.Fatal("configuring payments", zap.Error(err))
	}

	dispatcher, err := notification.NewModule(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("configuring notifications", zap.Error(err))
	}

	orderModule := order.NewModule(db, cfg, order.Dependencies{
		Products: productModule.Service,
		Ledger:   ledger,
		Payments: initiator,
		Notifier: dispatcher,
	}, validate, zapLogger)

	router := server.NewRouter(server.Controllers{
		Products: productModule.Controller,
		Stock:    productcontroller.NewStockController(ledger, validate, zapLogger),
		Shipping: shippingcontroller.NewShippingController(shippingModule.Quotes, shippingModule.Tracker, validate, zapLogger),
		Checkout: orderModule.Checkout,
		Orders:   orderModule.Orders,
		Admin:    orderModule.Admin,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
