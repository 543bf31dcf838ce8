package payment

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"vitrine/internal/config"
	"vitrine/internal/payment/repository"
)

// NewModule picks the Stripe gateway when a secret key is configured and the
// simulated gateway otherwise.
func NewModule(db *sql.DB, cfg config.PaymentConfig, logger *zap.Logger) (*Initiator, error) {
	var gateway Gateway
	if cfg.LiveMode() {
		stripeGateway, err := NewStripeGateway(StripeGatewayConfig{APIKey: cfg.StripeSecretKey})
		if err != nil {
			return nil, fmt.Errorf("creating stripe gateway: %w", err)
		}
		gateway = stripeGateway
	} else {
		if err := ValidatePixKey(cfg.PixKey); err != nil {
			return nil, fmt.Errorf("configuring simulated gateway: %w", err)
		}
		gateway = NewSimulatedGateway(SimulatedGatewayConfig{
			PixKey:          cfg.PixKey,
			MerchantName:    cfg.MerchantName,
			MerchantCity:    cfg.MerchantCity,
			DocumentBaseURL: cfg.DocumentBaseURL,
		})
	}
	logger.Info("payment gateway selected", zap.String("provider", gateway.Name()))

	return NewInitiator(
		gateway,
		repository.NewMySQLPaymentAttemptRepository(db),
		cfg.Timeout,
		cfg.BoletoDueDays,
		logger,
	), nil
}
