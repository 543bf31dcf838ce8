package shipping

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/config"
)

type Module struct {
	Quotes  *QuoteService
	Tracker *Tracker
}

// NewModule wires the carrier API only when a token is configured; without
// one every quote uses fallback pricing.
func NewModule(products ProductFinder, creatorConfig CreatorConfigRepository, cfg config.ShippingConfig, logger *zap.Logger) *Module {
	var provider RateProvider
	if cfg.LiveMode() {
		provider = NewCarrierClient(&http.Client{Timeout: cfg.Timeout}, cfg.APIURL, cfg.APIToken)
	}
	logger.Info("shipping quotes configured", zap.Bool("live", provider != nil))

	resolver := NewResolver(provider, cfg.Timeout, logger)
	return &Module{
		Quotes:  NewQuoteService(products, creatorConfig, resolver, cfg.OriginPostalCode, logger),
		Tracker: NewTracker(NewSimulatedSource(time.Now), logger),
	}
}
