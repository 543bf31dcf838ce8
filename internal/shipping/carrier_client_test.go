package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarrierClient_Rates(t *testing.T) {
	var got rateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "PAC", "price": "18.75", "delivery_time": 9, "company": {"name": "Correios"}},
			{"id": 2, "name": "SEDEX", "price": 31.2, "delivery_time": 3, "company": {"name": "Correios"}},
			{"id": 17, "name": "Mini Envios", "error": "Dimensões excedem o limite", "company": {"name": "Correios"}}
		]`))
	}))
	defer srv.Close()

	client := NewCarrierClient(srv.Client(), srv.URL, "token-123")

	options, err := client.Rates(context.Background(), "01310100", "30130010", []Parcel{{
		ID: "9", WeightGrams: 300, HeightCm: 4, WidthCm: 11, LengthCm: 16, InsuranceValueCents: 5000, Quantity: 2,
	}})
	require.NoError(t, err)

	require.Len(t, options, 2)
	assert.Equal(t, Option{ID: "1", Carrier: "Correios", Service: "PAC", PriceCents: 1875, DeliveryDays: 9}, options[0])
	assert.Equal(t, int64(3120), options[1].PriceCents)

	assert.Equal(t, "01310100", got.From.PostalCode)
	assert.Equal(t, "30130010", got.To.PostalCode)
	require.Len(t, got.Products, 1)
	assert.InDelta(t, 0.3, got.Products[0].Weight, 0.0001)
	assert.InDelta(t, 50.0, got.Products[0].InsuranceValue, 0.0001)
	assert.Equal(t, 2, got.Products[0].Quantity)
}

func TestCarrierClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthenticated."}`))
	}))
	defer srv.Close()

	client := NewCarrierClient(srv.Client(), srv.URL, "bad")

	_, err := client.Rates(context.Background(), "01310100", "30130010", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCarrierClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	client := NewCarrierClient(srv.Client(), srv.URL, "token")

	_, err := client.Rates(context.Background(), "01310100", "30130010", nil)
	assert.Error(t, err)
}
