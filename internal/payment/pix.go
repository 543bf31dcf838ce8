package payment

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/unicode/norm"
)

// EMV BR Code field ids.
const (
	emvPayloadFormat   = "00"
	emvMerchantAccount = "26"
	emvMerchantGUI     = "00"
	emvMerchantKey     = "01"
	emvCategoryCode    = "52"
	emvCurrency        = "53"
	emvAmount          = "54"
	emvCountry         = "58"
	emvMerchantName    = "59"
	emvMerchantCity    = "60"
	emvAdditional      = "62"
	emvTxID            = "05"
	emvCRC             = "63"

	pixGUI        = "br.gov.bcb.pix"
	currencyBRL   = "986"
	maxNameLength = 25
	maxCityLength = 15
	maxTxIDLength = 25
	qrImageSize   = 256

	// Field 26 holds the GUI subfield (18 chars) and the key subfield
	// (4 chars of header) inside the two-digit EMV length.
	maxPixKeyLength = 99 - 18 - 4
)

// ValidatePixKey rejects keys that cannot fit the merchant account field.
func ValidatePixKey(key string) error {
	if n := len(strings.TrimSpace(key)); n > maxPixKeyLength {
		return fmt.Errorf("pix key has %d characters, at most %d fit a BR Code", n, maxPixKeyLength)
	}
	return nil
}

type PixPayload struct {
	Key          string
	MerchantName string
	MerchantCity string
	AmountCents  int64
	TxID         string
}

// BRCode renders the static "copia e cola" payload, CRC included.
func (p PixPayload) BRCode() string {
	var b strings.Builder
	b.WriteString(emvField(emvPayloadFormat, "01"))
	key := p.Key
	if len(key) > maxPixKeyLength {
		key = key[:maxPixKeyLength]
	}
	b.WriteString(emvField(emvMerchantAccount,
		emvField(emvMerchantGUI, pixGUI)+emvField(emvMerchantKey, key)))
	b.WriteString(emvField(emvCategoryCode, "0000"))
	b.WriteString(emvField(emvCurrency, currencyBRL))
	if p.AmountCents > 0 {
		b.WriteString(emvField(emvAmount, fmt.Sprintf("%d.%02d", p.AmountCents/100, p.AmountCents%100)))
	}
	b.WriteString(emvField(emvCountry, "BR"))
	b.WriteString(emvField(emvMerchantName, emvText(p.MerchantName, maxNameLength)))
	b.WriteString(emvField(emvMerchantCity, emvText(p.MerchantCity, maxCityLength)))

	txid := emvTxIDText(p.TxID)
	if txid == "" {
		txid = "***"
	}
	b.WriteString(emvField(emvAdditional, emvField(emvTxID, txid)))

	b.WriteString(emvCRC + "04")
	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16CCITT([]byte(payload)))
}

// QRCodeDataURI encodes content as a base64 PNG data URI.
func QRCodeDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("encoding qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func emvField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// emvText strips accents and keeps the value inside the field limit.
func emvText(s string, limit int) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r > unicode.MaxASCII {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	out := strings.TrimSpace(b.String())
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func emvTxIDText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > maxTxIDLength {
		out = out[:maxTxIDLength]
	}
	return out
}

// crc16CCITT is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func crc16CCITT(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
