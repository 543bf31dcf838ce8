package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueFactor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"first thousand", time.Date(2000, time.July, 3, 0, 0, 0, 0, time.UTC), 1000},
		{"last before reset", time.Date(2025, time.February, 21, 0, 0, 0, 0, time.UTC), 9999},
		{"reset day", time.Date(2025, time.February, 22, 0, 0, 0, 0, time.UTC), 1000},
		{"after reset", time.Date(2026, time.October, 20, 15, 30, 0, 0, time.UTC), 1605},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dueFactor(tt.date))
		})
	}
}

func TestCheckDigits_KnownSlip(t *testing.T) {
	line := "00190500954014481606906809350314337370000000100"

	assert.Equal(t, "5", mod10("001905009"))
	assert.Equal(t, "9", mod10("4014481606"))
	assert.Equal(t, "4", mod10("0680935031"))

	barcode := BarcodeFromDigitableLine(line)
	require.Len(t, barcode, 44)
	assert.Equal(t, "3", barcodeDV(barcode[:4]+barcode[4+1:]))
	assert.Equal(t, line, digitableLine(barcode))
}

func TestBarcodeFromDigitableLine_Formatted(t *testing.T) {
	formatted := "00190.50095 40144.816069 06809.350314 3 37370000000100"
	assert.Equal(t, "00193373700000001000500940144816060680935031", BarcodeFromDigitableLine(formatted))
	assert.Equal(t, "123", BarcodeFromDigitableLine("1.2.3"))
}

func TestNewBoleto(t *testing.T) {
	due := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)

	slip, err := NewBoleto(11590, 42, due)
	require.NoError(t, err)

	require.Len(t, slip.Barcode, 44)
	require.Len(t, slip.DigitableLine, 47)
	assert.Equal(t, "0019", slip.Barcode[:4])
	assert.Equal(t, "1605", slip.Barcode[5:9])
	assert.Equal(t, "0000011590", slip.Barcode[9:19])
	assert.Equal(t, "0000001234567000000004217", slip.Barcode[19:44])
	assert.Equal(t, barcodeDV(slip.Barcode[:4]+slip.Barcode[5:]), slip.Barcode[4:5])
	assert.Equal(t, slip.Barcode, BarcodeFromDigitableLine(slip.DigitableLine))
	assert.Equal(t, due, slip.DueDate)
}

func TestNewBoleto_AmountOutOfRange(t *testing.T) {
	_, err := NewBoleto(-1, 1, time.Now())
	assert.Error(t, err)

	_, err = NewBoleto(maxBoletoAmount+1, 1, time.Now())
	assert.Error(t, err)
}
