package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Receipt.ReceiptNumber}}</title>
<style>
  body { font-family: "DejaVu Sans Mono", monospace; font-size: 11px; margin: 0; }
  h1 { font-size: 14px; text-align: center; margin: 0 0 4px; }
  .meta, .totals { width: 100%; }
  .items { width: 100%; border-collapse: collapse; margin: 6px 0; }
  .items th, .items td { padding: 2px 0; text-align: left; }
  .items .num { text-align: right; }
  .rule { border-top: 1px dashed #000; margin: 4px 0; }
  .total { font-weight: bold; font-size: 13px; }
</style>
</head>
<body>
<h1>{{.Business}}</h1>
<div class="rule"></div>
<table class="meta">
  <tr><td>Receipt</td><td>{{.Receipt.ReceiptNumber}}</td></tr>
  <tr><td>Order</td><td>#{{.Receipt.OrderNumber}}</td></tr>
  <tr><td>Date</td><td>{{date .Receipt.IssuedAt}}</td></tr>
  {{- with .Receipt.CustomerName}}
  <tr><td>Customer</td><td>{{.}}</td></tr>
  {{- end}}
  {{- with .Receipt.Phone}}
  <tr><td>Phone</td><td>{{.}}</td></tr>
  {{- end}}
  <tr><td>Status</td><td>{{.Receipt.Status}}</td></tr>
</table>
<div class="rule"></div>
<table class="items">
  <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
  {{- range .Receipt.Items}}
  <tr>
    <td>{{if .Name}}{{.Name}}{{else}}(removed item){{end}}{{if eq (print .ItemType) "spicy"}} (spicy){{end}}</td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">{{money .Price}}</td>
    <td class="num">{{money .LineTotal}}</td>
  </tr>
  {{- end}}
</table>
<div class="rule"></div>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{money .Receipt.Subtotal}}</td></tr>
  {{- if .Receipt.Discount.IsPositive}}
  <tr><td>Discount</td><td class="num">{{money .Receipt.Discount}}</td></tr>
  {{- end}}
  <tr class="total"><td>Total</td><td class="num">{{money .Receipt.Total}}</td></tr>
</table>
<div class="rule"></div>
<p style="text-align:center">Thank you!</p>
</body>
</html>`

// ReceiptPrinter renders order receipts to PDF on receipt paper
type ReceiptPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	business string
}

// NewReceiptPrinter creates a ReceiptPrinter. Dates are printed in loc.
func NewReceiptPrinter(renderer PDFRenderer, business string, loc *time.Location) *ReceiptPrinter {
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.In(loc).Format("2006-01-02 15:04") },
	}
	return &ReceiptPrinter{
		renderer: renderer,
		tmpl:     template.Must(template.New("receipt").Funcs(funcs).Parse(receiptTemplate)),
		business: business,
	}
}

// RenderHTML renders the receipt document
func (p *ReceiptPrinter) RenderHTML(receipt trade.Receipt) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, struct {
		Business string
		Receipt  trade.Receipt
	}{p.business, receipt})
	if err != nil {
		return "", NewRenderError(ErrCodeTemplate, "failed to render receipt template", err)
	}
	return buf.String(), nil
}

// PrintReceipt renders the receipt as a PDF
func (p *ReceiptPrinter) PrintReceipt(ctx context.Context, receipt trade.Receipt) ([]byte, error) {
	doc, err := p.RenderHTML(receipt)
	if err != nil {
		return nil, err
	}
	return p.renderer.Render(ctx, &RenderRequest{
		HTML:         doc,
		Title:        receipt.ReceiptNumber,
		PaperWidthMM: ReceiptPaperWidthMM,
		MarginMM:     4,
	})
}
