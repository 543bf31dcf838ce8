package order

import (
	"database/sql"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/config"
	"vitrine/internal/order/controller"
	orderrepo "vitrine/internal/order/repository"
	"vitrine/internal/order/service"
	"vitrine/internal/order/usecase"
)

// Dependencies are the collaborators owned by other modules.
type Dependencies struct {
	Products usecase.ProductService
	Ledger   usecase.StockLedger
	Payments usecase.PaymentInitiator
	Notifier usecase.Notifier
}

type Module struct {
	Checkout *controller.CheckoutController
	Orders   *controller.OrderController
	Admin    *controller.AdminController
}

func NewModule(db *sql.DB, cfg *config.Config, deps Dependencies, validate *validatorv10.Validate, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	addressRepo := orderrepo.NewMySQLAddressRepository(db)
	shipmentRepo := orderrepo.NewMySQLShipmentRepository(db)

	persistence := service.NewPersistenceService(
		db,
		addressRepo,
		orderRepo,
		orderItemRepo,
		shipmentRepo,
		logger,
		cfg.Order.PersistTxTimeout,
		cfg.Order.MaxRetryAttempts,
	)

	store := usecase.Store{Name: cfg.Store.Name, BaseURL: cfg.Store.BaseURL}

	checkout := usecase.NewCheckoutUseCase(deps.Products, deps.Ledger, persistence, deps.Payments, deps.Notifier, store, logger)
	fulfillment := usecase.NewFulfillmentUseCase(persistence, deps.Notifier, store, logger)
	query := usecase.NewOrderQueryUseCase(orderRepo, orderItemRepo, addressRepo, shipmentRepo, logger)

	return &Module{
		Checkout: controller.NewCheckoutController(checkout, validate, logger),
		Orders:   controller.NewOrderController(query, logger),
		Admin:    controller.NewAdminController(fulfillment, validate, logger),
	}
}
