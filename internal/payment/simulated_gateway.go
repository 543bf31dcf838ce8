package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"vitrine/internal/domain"
)

const (
	simulatedProvider = "simulated"
	simulatedPrefix   = "sim_"
)

type SimulatedGatewayConfig struct {
	PixKey          string
	MerchantName    string
	MerchantCity    string
	DocumentBaseURL string
	Clock           func() time.Time
	IDGen           func() string
}

// SimulatedGateway fabricates pending payments without any network call.
// It is selected when no provider credentials are configured.
type SimulatedGateway struct {
	cfg   SimulatedGatewayConfig
	clock func() time.Time
	idGen func() string
}

func NewSimulatedGateway(cfg SimulatedGatewayConfig) *SimulatedGateway {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := cfg.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	if strings.TrimSpace(cfg.MerchantName) == "" {
		cfg.MerchantName = "VITRINE"
	}
	if strings.TrimSpace(cfg.MerchantCity) == "" {
		cfg.MerchantCity = "SAO PAULO"
	}
	return &SimulatedGateway{cfg: cfg, clock: clock, idGen: idGen}
}

func (g *SimulatedGateway) Name() string { return simulatedProvider }

func (g *SimulatedGateway) CreatePix(ctx context.Context, req PixRequest) (Result, error) {
	reference := simulatedPrefix + g.idGen()

	key := strings.TrimSpace(g.cfg.PixKey)
	if key == "" {
		key = reference
	}

	payload := PixPayload{
		Key:          key,
		MerchantName: g.cfg.MerchantName,
		MerchantCity: g.cfg.MerchantCity,
		AmountCents:  req.AmountCents,
		TxID:         "PED" + req.OrderRef,
	}.BRCode()

	result := Result{
		Success:   true,
		Provider:  simulatedProvider,
		Reference: reference,
		Method:    domain.PaymentMethodPix,
		Status:    domain.PaymentStatusPending,
		Message:   "pix payment created, scan the QR code to pay",
		PixQRCode: payload,
	}

	// The copy-and-paste payload alone is enough to pay.
	if image, err := QRCodeDataURI(payload); err == nil {
		result.PixQRCodeImage = image
	}
	return result, nil
}

func (g *SimulatedGateway) CreateBoleto(ctx context.Context, req BoletoRequest) (Result, error) {
	reference := simulatedPrefix + g.idGen()

	days := req.DueInDays
	if days <= 0 {
		days = 3
	}
	now := g.clock().UTC()
	due := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)

	result := Result{
		Success:   true,
		Provider:  simulatedProvider,
		Reference: reference,
		Method:    domain.PaymentMethodBoleto,
		Status:    domain.PaymentStatusPending,
		Message:   "boleto created, pay it before the due date",
		BoletoURL: strings.TrimRight(g.cfg.DocumentBaseURL, "/") + "/" + reference,
	}
	result.BoletoDueDate = &due

	slip, err := NewBoleto(req.AmountCents, parseOrderRef(req.OrderRef), due)
	if err != nil {
		// Out-of-range amounts still get a reference and a document link.
		return result, nil
	}
	result.BoletoBarcode = slip.Barcode
	result.BoletoDigitableLine = slip.DigitableLine
	return result, nil
}

func parseOrderRef(ref string) uint {
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
