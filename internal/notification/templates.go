package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vitrine/internal/domain"
)

type Kind string

const (
	KindOrderConfirmation Kind = "order_confirmation"
	KindOrderStatusUpdate Kind = "order_status_update"
)

type Recipient struct {
	Name  string
	Email string
}

type ItemLine struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}

// Data feeds both templates; fields a template does not use are ignored.
type Data struct {
	StoreName       string
	StoreURL        string
	OrderID         uint
	CustomerName    string
	Items           []ItemLine
	SubtotalCents   int64
	ShippingCents   int64
	DiscountCents   int64
	TotalCents      int64
	PaymentMethod   domain.PaymentMethod
	ShippingService string
	ShippingCarrier string
	Address         *domain.Address
	CustomerNotes   string
	Status          domain.OrderStatus
	TrackingCode    string
	TrackingURL     string
	CreatedAt       time.Time
}

type Message struct {
	Subject string
	HTML    string
	Text    string
}

type Renderer struct {
	printer *message.Printer
	policy  *bluemonday.Policy
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		printer: message.NewPrinter(language.BrazilianPortuguese),
		policy:  bluemonday.StrictPolicy(),
	}

	funcs := map[string]any{
		"brl":    r.brl,
		"date":   formatDate,
		"clean":  r.clean,
		"method": func(m domain.PaymentMethod) string { return m.Label() },
		"label":  func(s domain.OrderStatus) string { return s.Label() },
		"about":  func(s domain.OrderStatus) string { return s.Description() },
	}

	html, err := htmltemplate.New("html").Funcs(funcs).Parse(htmlTemplates)
	if err != nil {
		return nil, fmt.Errorf("parsing html templates: %w", err)
	}
	text, err := texttemplate.New("text").Funcs(funcs).Parse(textTemplates)
	if err != nil {
		return nil, fmt.Errorf("parsing text templates: %w", err)
	}

	r.html = html
	r.text = text
	return r, nil
}

func (r *Renderer) Render(kind Kind, data Data) (Message, error) {
	var subject string
	switch kind {
	case KindOrderConfirmation:
		subject = fmt.Sprintf("Pedido #%d recebido", data.OrderID)
	case KindOrderStatusUpdate:
		subject = fmt.Sprintf("Pedido #%d: %s", data.OrderID, data.Status.Label())
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}
	if data.StoreName != "" {
		subject = data.StoreName + " - " + subject
	}

	var html, text bytes.Buffer
	if err := r.html.ExecuteTemplate(&html, string(kind), data); err != nil {
		return Message{}, fmt.Errorf("rendering %s html: %w", kind, err)
	}
	if err := r.text.ExecuteTemplate(&text, string(kind), data); err != nil {
		return Message{}, fmt.Errorf("rendering %s text: %w", kind, err)
	}

	return Message{Subject: subject, HTML: html.String(), Text: strings.TrimSpace(text.String())}, nil
}

func (r *Renderer) brl(cents int64) string {
	return r.printer.Sprintf("R$ %.2f", float64(cents)/100)
}

// clean strips any markup customers typed into free-text fields.
func (r *Renderer) clean(s string) string {
	return strings.TrimSpace(r.policy.Sanitize(s))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(saoPaulo).Format("02/01/2006 15:04")
}

var saoPaulo = func() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}()

const htmlTemplates = `
{{define "order_confirmation"}}<!DOCTYPE html>
<html lang="pt-BR"><body style="font-family: Arial, sans-serif; color: #222;">
<h1>Obrigado pela sua compra{{if .CustomerName}}, {{.CustomerName}}{{end}}!</h1>
<p>Recebemos o seu pedido <strong>#{{.OrderID}}</strong>{{if not .CreatedAt.IsZero}} em {{date .CreatedAt}}{{end}}.</p>
<table cellpadding="6" style="border-collapse: collapse;">
<thead><tr><th align="left">Produto</th><th>Qtd.</th><th align="right">Preço</th><th align="right">Total</th></tr></thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}}</td><td align="center">{{.Quantity}}</td><td align="right">{{brl .UnitPriceCents}}</td><td align="right">{{brl .TotalCents}}</td></tr>
{{end}}</tbody>
</table>
<p>Subtotal: {{brl .SubtotalCents}}<br>
Frete{{if .ShippingService}} ({{with .ShippingCarrier}}{{.}} {{end}}{{.ShippingService}}){{end}}: {{brl .ShippingCents}}<br>
{{if gt .DiscountCents 0}}Desconto: -{{brl .DiscountCents}}<br>
{{end}}<strong>Total: {{brl .TotalCents}}</strong></p>
<p>Forma de pagamento: {{method .PaymentMethod}}</p>
{{with .Address}}<p>Entrega para:<br>{{.RecipientName}}<br>{{.Street}}, {{.Number}}{{if .Complement}} - {{.Complement}}{{end}}<br>{{.Neighborhood}} - {{.City}}/{{.State}}<br>CEP {{.PostalCode}}</p>
{{end}}{{with clean .CustomerNotes}}<p>Suas observações: {{.}}</p>
{{end}}{{if .StoreURL}}<p><a href="{{.StoreURL}}/pedidos/{{.OrderID}}">Acompanhe o seu pedido</a></p>{{end}}
</body></html>{{end}}

{{define "order_status_update"}}<!DOCTYPE html>
<html lang="pt-BR"><body style="font-family: Arial, sans-serif; color: #222;">
<h1>Pedido #{{.OrderID}}: {{label .Status}}</h1>
<p>{{if .CustomerName}}Olá, {{.CustomerName}}. {{end}}{{about .Status}}</p>
{{if .TrackingCode}}<p>Código de rastreio: <strong>{{.TrackingCode}}</strong>{{if .TrackingURL}}<br><a href="{{.TrackingURL}}">Rastrear entrega</a>{{end}}</p>
{{end}}{{if .StoreURL}}<p><a href="{{.StoreURL}}/pedidos/{{.OrderID}}">Ver pedido</a></p>{{end}}
</body></html>{{end}}
`

const textTemplates = `
{{define "order_confirmation"}}Obrigado pela sua compra{{if .CustomerName}}, {{.CustomerName}}{{end}}!

Pedido #{{.OrderID}}
{{range .Items}}
- {{.Name}} x{{.Quantity}}: {{brl .TotalCents}}{{end}}

Subtotal: {{brl .SubtotalCents}}
Frete: {{brl .ShippingCents}}{{if gt .DiscountCents 0}}
Desconto: -{{brl .DiscountCents}}{{end}}
Total: {{brl .TotalCents}}
Pagamento: {{method .PaymentMethod}}
{{with .Address}}
Entrega: {{.Street}}, {{.Number}} - {{.City}}/{{.State}} - CEP {{.PostalCode}}{{end}}
{{end}}

{{define "order_status_update"}}Pedido #{{.OrderID}}: {{label .Status}}

{{about .Status}}{{if .TrackingCode}}

Código de rastreio: {{.TrackingCode}}{{if .TrackingURL}}
{{.TrackingURL}}{{end}}{{end}}
{{end}}
`
