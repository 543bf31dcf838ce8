package payment

import (
	"fmt"
	"strings"
	"time"
)

const (
	boletoBankCode    = "001"
	boletoCurrency    = "9"
	boletoAgreement   = "1234567"
	boletoWallet      = "17"
	maxBoletoAmount   = 9999999999
	dueFactorResetDay = 10000
)

var dueFactorBase = time.Date(1997, time.October, 7, 0, 0, 0, 0, time.UTC)

// Boleto holds the 44-digit barcode and the 47-digit digitable line of a
// bank slip.
type Boleto struct {
	Barcode        string
	DigitableLine  string
	DueDate        time.Time
	DocumentNumber string
}

// NewBoleto builds a slip for amountCents due on dueDate. The free field
// follows the 7-digit agreement layout with the order id as "nosso número".
func NewBoleto(amountCents int64, orderID uint, dueDate time.Time) (Boleto, error) {
	if amountCents < 0 || amountCents > maxBoletoAmount {
		return Boleto{}, fmt.Errorf("boleto amount out of range: %d", amountCents)
	}

	freeField := fmt.Sprintf("000000%s%010d%s", boletoAgreement, orderID%10_000_000_000, boletoWallet)
	body := fmt.Sprintf("%s%s%04d%010d", boletoBankCode, boletoCurrency, dueFactor(dueDate), amountCents)

	// The general check digit sits at position 5 and covers the other 43 digits.
	withoutDV := body + freeField
	dv := barcodeDV(withoutDV)
	barcode := withoutDV[:4] + dv + withoutDV[4:]

	return Boleto{
		Barcode:        barcode,
		DigitableLine:  digitableLine(barcode),
		DueDate:        dueDate,
		DocumentNumber: fmt.Sprintf("%010d", orderID%10_000_000_000),
	}, nil
}

// dueFactor counts days since 1997-10-07; it wrapped to 1000 on 2025-02-22.
func dueFactor(due time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(dueFactorBase).Hours() / 24)
	if days < dueFactorResetDay {
		return days
	}
	return (days-dueFactorResetDay)%9000 + 1000
}

func barcodeDV(digits string) string {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv == 0 || dv == 10 || dv == 11 {
		dv = 1
	}
	return fmt.Sprint(dv)
}

func mod10(digits string) string {
	sum, weight := 0, 2
	for i := len(digits) - 1; i >= 0; i-- {
		p := int(digits[i]-'0') * weight
		sum += p/10 + p%10
		if weight == 2 {
			weight = 1
		} else {
			weight = 2
		}
	}
	return fmt.Sprint((10 - sum%10) % 10)
}

func digitableLine(barcode string) string {
	f1 := barcode[0:4] + barcode[19:24]
	f2 := barcode[24:34]
	f3 := barcode[34:44]
	return f1 + mod10(f1) + f2 + mod10(f2) + f3 + mod10(f3) + barcode[4:5] + barcode[5:19]
}

// BarcodeFromDigitableLine rebuilds the 44-digit barcode. Input that is not
// a 47-digit line is returned with formatting removed.
func BarcodeFromDigitableLine(line string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, line)
	if len(digits) != 47 {
		return digits
	}
	return digits[0:4] + digits[32:33] + digits[33:47] + digits[4:9] + digits[10:20] + digits[21:31]
}
