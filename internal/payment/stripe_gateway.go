package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"vitrine/internal/domain"
	apperrors "vitrine/internal/errors"
)

const stripeProvider = "stripe"

type stripePaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGatewayConfig struct {
	APIKey   string
	Backends *stripe.Backends
	Intents  stripePaymentIntentAPI
}

// StripeGateway creates pix and boleto PaymentIntents and reads the
// display details from next_action.
type StripeGateway struct {
	intents stripePaymentIntentAPI
}

func NewStripeGateway(cfg StripeGatewayConfig) (*StripeGateway, error) {
	intents := cfg.Intents
	if intents == nil {
		apiKey := strings.TrimSpace(cfg.APIKey)
		if apiKey == "" {
			return nil, errors.New("stripe: api key is required")
		}
		intents = client.New(apiKey, cfg.Backends).PaymentIntents
	}
	return &StripeGateway{intents: intents}, nil
}

func (g *StripeGateway) Name() string { return stripeProvider }

func (g *StripeGateway) CreatePix(ctx context.Context, req PixRequest) (Result, error) {
	params := g.baseParams(ctx, req.AmountCents, req.OrderRef, domain.PaymentMethodPix)
	params.PaymentMethodData = &stripe.PaymentIntentPaymentMethodDataParams{
		Type: stripe.String("pix"),
		Pix:  &stripe.PaymentMethodPixParams{},
	}
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return Result{}, stripeError("create pix payment intent", err)
	}

	result := pendingResult(intent, domain.PaymentMethodPix, "pix payment created, scan the QR code to pay")
	if intent.NextAction != nil && intent.NextAction.PixDisplayQRCode != nil {
		qr := intent.NextAction.PixDisplayQRCode
		result.PixQRCode = qr.Data
		result.PixQRCodeImage = qr.ImageURLPNG
	}
	if result.PixQRCode == "" {
		return Result{}, apperrors.NewProviderUnavailableError(stripeProvider,
			fmt.Errorf("payment intent %s has no pix qr code", intent.ID))
	}
	return result, nil
}

func (g *StripeGateway) CreateBoleto(ctx context.Context, req BoletoRequest) (Result, error) {
	params := g.baseParams(ctx, req.AmountCents, req.OrderRef, domain.PaymentMethodBoleto)

	addr := req.BillingAddress
	line1 := strings.TrimSpace(addr.Street + ", " + addr.Number)
	line2 := addr.Neighborhood
	if addr.Complement != nil && *addr.Complement != "" {
		line2 = *addr.Complement + " - " + addr.Neighborhood
	}
	params.PaymentMethodData = &stripe.PaymentIntentPaymentMethodDataParams{
		Type: stripe.String("boleto"),
		Boleto: &stripe.PaymentMethodBoletoParams{
			TaxID: stripe.String(req.Customer.CPF),
		},
		BillingDetails: &stripe.PaymentIntentPaymentMethodDataBillingDetailsParams{
			Name:  stripe.String(req.Customer.Name),
			Email: stripe.String(req.Customer.Email),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(line1),
				Line2:      stripe.String(line2),
				City:       stripe.String(addr.City),
				State:      stripe.String(addr.State),
				PostalCode: stripe.String(addr.PostalCode),
				Country:    stripe.String("BR"),
			},
		},
	}
	if req.DueInDays > 0 {
		params.PaymentMethodOptions = &stripe.PaymentIntentPaymentMethodOptionsParams{
			Boleto: &stripe.PaymentIntentPaymentMethodOptionsBoletoParams{
				ExpiresAfterDays: stripe.Int64(int64(req.DueInDays)),
			},
		}
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return Result{}, stripeError("create boleto payment intent", err)
	}

	result := pendingResult(intent, domain.PaymentMethodBoleto, "boleto created, pay it before the due date")
	if intent.NextAction != nil && intent.NextAction.BoletoDisplayDetails != nil {
		details := intent.NextAction.BoletoDisplayDetails
		result.BoletoDigitableLine = details.Number
		result.BoletoBarcode = BarcodeFromDigitableLine(details.Number)
		result.BoletoURL = details.HostedVoucherURL
		if details.PDF != "" && result.BoletoURL == "" {
			result.BoletoURL = details.PDF
		}
		if details.ExpiresAt > 0 {
			due := time.Unix(details.ExpiresAt, 0).UTC()
			result.BoletoDueDate = &due
		}
	}
	if result.BoletoDigitableLine == "" {
		return Result{}, apperrors.NewProviderUnavailableError(stripeProvider,
			fmt.Errorf("payment intent %s has no boleto details", intent.ID))
	}
	return result, nil
}

func (g *StripeGateway) baseParams(ctx context.Context, amountCents int64, orderRef string, method domain.PaymentMethod) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyBRL)),
		PaymentMethodTypes: stripe.StringSlice([]string{string(method)}),
		Confirm:            stripe.Bool(true),
		Description:        stripe.String("Pedido #" + orderRef),
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + orderRef + "-" + string(method))
	params.AddMetadata("orderId", orderRef)
	return params
}

func pendingResult(intent *stripe.PaymentIntent, method domain.PaymentMethod, message string) Result {
	return Result{
		Success:   true,
		Provider:  stripeProvider,
		Reference: intent.ID,
		Method:    method,
		Status:    domain.PaymentStatusPending,
		Message:   message,
	}
}

func stripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return apperrors.NewProviderUnavailableError(stripeProvider,
			fmt.Errorf("%s: %s (status %d, code %s): %w", op, stripeErr.Msg, stripeErr.HTTPStatusCode, stripeErr.Code, err))
	}
	return apperrors.NewProviderUnavailableError(stripeProvider, fmt.Errorf("%s: %w", op, err))
}
