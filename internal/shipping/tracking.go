package shipping

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/domain"
)

var (
	correiosCodePattern = regexp.MustCompile(`^[A-Z]{2}\d{9}[A-Z]{2}$`)
	jadlogCodePattern   = regexp.MustCompile(`^\d{14}$`)
)

var trackingURLTemplates = map[domain.Carrier]string{
	domain.CarrierCorreios: "https://rastreamento.correios.com.br/app/index.php?objeto=%s",
	domain.CarrierJadlog:   "https://www.jadlog.com.br/jadlog/tracking?cte=%s",
}

const genericTrackingURL = "https://www.google.com/search?q=%s"

// NormalizeTrackingCode uppercases the code and drops whitespace.
func NormalizeTrackingCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

func DetectCarrier(code string) domain.Carrier {
	code = NormalizeTrackingCode(code)
	switch {
	case correiosCodePattern.MatchString(code):
		return domain.CarrierCorreios
	case jadlogCodePattern.MatchString(code):
		return domain.CarrierJadlog
	}
	return domain.CarrierUnknown
}

func TrackingURL(carrier domain.Carrier, code string) string {
	code = NormalizeTrackingCode(code)
	if tmpl, ok := trackingURLTemplates[carrier]; ok {
		return fmt.Sprintf(tmpl, url.QueryEscape(code))
	}
	return fmt.Sprintf(genericTrackingURL, url.QueryEscape("rastreio "+code))
}

type TrackingEvent struct {
	Status      string
	Description string
	Location    string
	OccurredAt  time.Time
}

type TrackingResult struct {
	Success     bool
	Code        string
	Carrier     domain.Carrier
	TrackingURL string
	Status      string
	Message     string
	Events      []TrackingEvent
}

// TrackingSource fetches raw events for a code.
type TrackingSource interface {
	Events(ctx context.Context, carrier domain.Carrier, code string) ([]TrackingEvent, error)
}

// Tracker never returns an error: failures are reported as
// Success=false, Status="error".
type Tracker struct {
	source TrackingSource
	logger *zap.Logger
}

func NewTracker(source TrackingSource, logger *zap.Logger) *Tracker {
	return &Tracker{source: source, logger: logger}
}

func (t *Tracker) Track(ctx context.Context, rawCode string) TrackingResult {
	code := NormalizeTrackingCode(rawCode)
	carrier := DetectCarrier(code)
	result := TrackingResult{
		Code:        code,
		Carrier:     carrier,
		TrackingURL: TrackingURL(carrier, code),
	}

	events, err := t.fetch(ctx, carrier, code)
	if err != nil {
		t.logger.Warn("tracking lookup failed", zap.String("trackingCode", code), zap.Error(err))
		result.Status = "error"
		result.Message = err.Error()
		result.Events = []TrackingEvent{}
		return result
	}

	result.Success = true
	result.Events = events
	result.Status = "unknown"
	if len(events) > 0 {
		result.Status = events[len(events)-1].Status
	}
	return result
}

func (t *Tracker) fetch(ctx context.Context, carrier domain.Carrier, code string) (events []TrackingEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tracking source panicked: %v", r)
		}
	}()

	if code == "" {
		return nil, errors.New("tracking code is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.source.Events(ctx, carrier, code)
}

// SimulatedSource fabricates tracking history. Correios codes get a
// posted/in-transit sequence; other carriers get a single in-transit event.
type SimulatedSource struct {
	now func() time.Time
}

func NewSimulatedSource(now func() time.Time) *SimulatedSource {
	if now == nil {
		now = time.Now
	}
	return &SimulatedSource{now: now}
}

func (s *SimulatedSource) Events(ctx context.Context, carrier domain.Carrier, code string) ([]TrackingEvent, error) {
	now := s.now().UTC()

	if carrier == domain.CarrierCorreios {
		return []TrackingEvent{
			{
				Status:      string(domain.ShipmentStatusPosted),
				Description: "Objeto postado",
				Location:    "São Paulo - SP",
				OccurredAt:  now.Add(-72 * time.Hour),
			},
			{
				Status:      string(domain.ShipmentStatusInTransit),
				Description: "Objeto em trânsito - por favor aguarde",
				Location:    "Unidade de Tratamento - Cajamar - SP",
				OccurredAt:  now.Add(-48 * time.Hour),
			},
			{
				Status:      string(domain.ShipmentStatusInTransit),
				Description: "Objeto em trânsito - por favor aguarde",
				Location:    "Unidade de Distribuição - destino",
				OccurredAt:  now.Add(-20 * time.Hour),
			},
		}, nil
	}

	return []TrackingEvent{
		{
			Status:      string(domain.ShipmentStatusInTransit),
			Description: "Objeto em trânsito",
			OccurredAt:  now.Add(-24 * time.Hour),
		},
	}, nil
}
