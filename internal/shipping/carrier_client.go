package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// CarrierClient calls a Melhor Envio style rate calculation endpoint.
type CarrierClient struct {
	httpClient *http.Client
	url        string
	token      string
}

func NewCarrierClient(httpClient *http.Client, url, token string) *CarrierClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CarrierClient{
		httpClient: httpClient,
		url:        url,
		token:      token,
	}
}

type ratePostalCode struct {
	PostalCode string `json:"postal_code"`
}

type rateProduct struct {
	ID             string  `json:"id"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Length         int     `json:"length"`
	Weight         float64 `json:"weight"`
	InsuranceValue float64 `json:"insurance_value"`
	Quantity       int     `json:"quantity"`
}

type rateRequest struct {
	From     ratePostalCode `json:"from"`
	To       ratePostalCode `json:"to"`
	Products []rateProduct  `json:"products"`
}

// amount accepts both "15.90" and 15.90.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", s, err)
	}
	*a = amount(f)
	return nil
}

type rateOption struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Price        amount `json:"price"`
	DeliveryTime int    `json:"delivery_time"`
	Error        string `json:"error"`
	Company      struct {
		Name string `json:"name"`
	} `json:"company"`
}

func (c *CarrierClient) Rates(ctx context.Context, origin, destination string, parcels []Parcel) ([]Option, error) {
	payload := rateRequest{
		From:     ratePostalCode{PostalCode: origin},
		To:       ratePostalCode{PostalCode: destination},
		Products: make([]rateProduct, 0, len(parcels)),
	}
	for _, p := range parcels {
		payload.Products = append(payload.Products, rateProduct{
			ID:             p.ID,
			Width:          p.WidthCm,
			Height:         p.HeightCm,
			Length:         p.LengthCm,
			Weight:         float64(p.WeightGrams) / 1000,
			InsuranceValue: float64(p.InsuranceValueCents) / 100,
			Quantity:       p.Quantity,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding rate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "vitrine-shipping")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling carrier api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading carrier response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("carrier api returned status %d", resp.StatusCode)
	}

	var rates []rateOption
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, fmt.Errorf("decoding carrier response: %w", err)
	}

	options := make([]Option, 0, len(rates))
	for _, r := range rates {
		if r.Error != "" {
			continue
		}
		options = append(options, Option{
			ID:           strconv.Itoa(r.ID),
			Carrier:      r.Company.Name,
			Service:      r.Name,
			PriceCents:   int64(math.Round(float64(r.Price) * 100)),
			DeliveryDays: r.DeliveryTime,
		})
	}

	return options, nil
}
