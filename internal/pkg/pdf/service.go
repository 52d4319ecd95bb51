// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/sale"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt generates a PDF receipt for a sale
func (s *Service) GenerateReceipt(sl *sale.Sale) (*bytes.Buffer, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%06d", sl.ID),
		SaleDate:      sl.SaleDate.Format("Jan 2, 2006 15:04"),
		Sale:          sl,
		Currency:      s.config.Store.Currency,
		Footer:        s.config.Store.ReceiptFooter,
		Store: StoreInfo{
			Name:    s.config.Store.Name,
			Address: s.config.Store.Address,
			Phone:   s.config.Store.Phone,
		},
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set("A6")

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string     `json:"receipt_number"`
	SaleDate      string     `json:"sale_date"`
	Sale          *sale.Sale `json:"sale"`
	Currency      string     `json:"currency"`
	Footer        string     `json:"footer"`
	Store         StoreInfo  `json:"store"`
}

// StoreInfo represents store header information
type StoreInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Receipt HTML template, sized for thermal-style narrow printing
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: 'Courier New', monospace;
            margin: 0;
            padding: 16px;
            color: #111;
            font-size: 12px;
        }
        .store-name {
            font-size: 16px;
            font-weight: bold;
            text-align: center;
        }
        .store-meta {
            text-align: center;
            margin-bottom: 8px;
        }
        .rule {
            border-top: 1px dashed #333;
            margin: 8px 0;
        }
        .meta td {
            padding: 1px 0;
        }
        table.items {
            width: 100%;
            border-collapse: collapse;
        }
        table.items th {
            text-align: left;
            border-bottom: 1px solid #333;
            padding: 2px 0;
        }
        table.items td {
            padding: 2px 0;
            vertical-align: top;
        }
        .num {
            text-align: right;
        }
        .totals td {
            padding: 1px 0;
        }
        .grand {
            font-size: 14px;
            font-weight: bold;
        }
        .footer {
            text-align: center;
            margin-top: 12px;
        }
    </style>
</head>
<body>
    <div class="store-name">{{.Store.Name}}</div>
    <div class="store-meta">
        {{if .Store.Address}}{{.Store.Address}}<br>{{end}}
        {{if .Store.Phone}}{{.Store.Phone}}{{end}}
    </div>
    <div class="rule"></div>
    <table class="meta">
        <tr><td>Receipt:</td><td class="num">{{.ReceiptNumber}}</td></tr>
        <tr><td>Date:</td><td class="num">{{.SaleDate}}</td></tr>
        <tr><td>Customer:</td><td class="num">{{.Sale.CustomerName}}</td></tr>
        <tr><td>Payment:</td><td class="num">{{.Sale.PaymentMethod}}</td></tr>
    </table>
    <div class="rule"></div>
    <table class="items">
        <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        {{range .Sale.Items}}
        <tr>
            <td>{{.ProductName}}</td>
            <td class="num">{{.Quantity}}</td>
            <td class="num">{{printf "%.2f" .UnitPrice}}</td>
            <td class="num">{{printf "%.2f" .Total}}</td>
        </tr>
        {{end}}
    </table>
    <div class="rule"></div>
    <table class="totals" width="100%">
        <tr><td>Subtotal</td><td class="num">{{.Currency}} {{printf "%.2f" .Sale.Subtotal}}</td></tr>
        {{if .Sale.DiscountAmount}}<tr><td>Discount</td><td class="num">-{{.Currency}} {{printf "%.2f" .Sale.DiscountAmount}}</td></tr>{{end}}
        {{if .Sale.TaxAmount}}<tr><td>Tax</td><td class="num">{{.Currency}} {{printf "%.2f" .Sale.TaxAmount}}</td></tr>{{end}}
        <tr class="grand"><td>Total</td><td class="num">{{.Currency}} {{printf "%.2f" .Sale.Total}}</td></tr>
    </table>
    <div class="footer">{{.Footer}}</div>
</body>
</html>
`
