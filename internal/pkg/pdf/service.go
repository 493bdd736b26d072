// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/boba-pos-backend/internal/config"
	"github.com/your-org/boba-pos-backend/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"options": optionSummary,
	"title":   paymentLabel,
}).Parse(receiptTemplate))

// Service renders order receipts
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Store StoreInfo
	Order *order.Order
	Date  string
}

// StoreInfo is printed in the receipt header
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
}

// GenerateReceipt renders a PDF receipt for an order
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderReceiptHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// 80mm thermal roll
	pdfg.Dpi.Set(203)
	pdfg.PageWidth.Set(80)
	pdfg.PageHeight.Set(200)
	pdfg.MarginLeft.Set(2)
	pdfg.MarginRight.Set(2)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderReceiptHTML renders the receipt markup without converting it
func (s *Service) RenderReceiptHTML(o *order.Order) (string, error) {
	data := ReceiptData{
		Store: StoreInfo{
			Name:    s.config.POS.StoreName,
			Address: s.config.POS.StoreAddress,
			Phone:   s.config.POS.StorePhone,
		},
		Order: o,
		Date:  o.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// optionSummary lists the non-regular customizations of an item
func optionSummary(opts []order.OrderItemOption) string {
	var parts []string
	for _, opt := range opts {
		if opt.OptionID == 0 {
			continue
		}
		label := opt.Name
		if opt.PriceDelta.IsPositive() {
			label += " +" + opt.PriceDelta.StringFixed(2)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func paymentLabel(m order.PaymentMethod) string {
	switch m {
	case order.PaymentMethodCash:
		return "Cash"
	case order.PaymentMethodCreditCard:
		return "Credit Card"
	}
	return string(m)
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Order.OrderNumber}}</title>
    <style>
        body { font-family: "Courier New", monospace; font-size: 11px; margin: 0; color: #000; }
        .center { text-align: center; }
        .store-name { font-size: 15px; font-weight: bold; }
        hr { border: none; border-top: 1px dashed #000; }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 2px 0; vertical-align: top; }
        .amount { text-align: right; white-space: nowrap; }
        .options { font-size: 10px; padding-left: 8px; }
        .total td { font-weight: bold; font-size: 13px; }
    </style>
</head>
<body>
    <div class="center">
        <div class="store-name">{{.Store.Name}}</div>
        {{if .Store.Address}}<div>{{.Store.Address}}</div>{{end}}
        {{if .Store.Phone}}<div>{{.Store.Phone}}</div>{{end}}
    </div>
    <hr>
    <div>Order: {{.Order.OrderNumber}}</div>
    <div>Date: {{.Date}}</div>
    {{if .Order.IsSelfService}}<div>Kiosk order</div>{{else}}<div>Served by #{{.Order.EmployeeID}}</div>{{end}}
    <hr>
    <table>
        {{range .Order.Items}}
        <tr>
            <td>{{.Quantity}} x {{.Name}}</td>
            <td class="amount">{{.LineTotal.StringFixed 2}}</td>
        </tr>
        {{with options .Options}}<tr><td class="options" colspan="2">{{.}}</td></tr>{{end}}
        {{end}}
    </table>
    <hr>
    <table>
        <tr><td>Subtotal</td><td class="amount">{{.Order.Subtotal.StringFixed 2}}</td></tr>
        <tr><td>Tax</td><td class="amount">{{.Order.Tax.StringFixed 2}}</td></tr>
        <tr class="total"><td>Total</td><td class="amount">{{.Order.Total.StringFixed 2}}</td></tr>
        <tr><td>Paid by</td><td class="amount">{{title .Order.PaymentMethod}}</td></tr>
    </table>
    {{if not .Order.IsGuest}}
    <hr>
    <div>Rewards points earned: {{.Order.PointsEarned}}</div>
    {{end}}
    {{if .Order.Notes}}<hr><div>Notes: {{.Order.Notes}}</div>{{end}}
    <hr>
    <div class="center">Thank you! Enjoy your boba.</div>
</body>
</html>
`
