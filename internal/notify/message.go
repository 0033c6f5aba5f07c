// Package notify delivers "invoice ready" messages through a pluggable provider.
package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// Recipient picks who is told about the invoice: the customer when the shop
// opted in and the order carries an email, otherwise the shop owner. An empty
// result means nobody is notified.
func Recipient(doc *invoice.Document, company domain.CompanyConfig) string {
	if company.SendEmailToCustomer {
		if email := strings.TrimSpace(doc.Customer.Email); email != "" {
			return email
		}
	}
	return strings.TrimSpace(company.OwnerEmail)
}

// Subject is the message subject line.
func Subject(doc *invoice.Document) string {
	return fmt.Sprintf("Invoice %s - %s", doc.Order.Name, doc.Totals.Total)
}

// BuildMessage assembles the notification for doc. ok is false when there is
// no recipient.
func BuildMessage(doc *invoice.Document, tc domain.TemplateConfig, invoiceURL string) (msg domain.Notification, ok bool, err error) {
	recipient := Recipient(doc, tc.Company)
	if recipient == "" {
		return domain.Notification{}, false, nil
	}

	data := messageData{Doc: doc, Company: tc.Company, URL: invoiceURL, Jurisdiction: tc.Company.Address.State}
	if data.Jurisdiction == "" {
		data.Jurisdiction = "the respective"
	}

	var text bytes.Buffer
	if err := textTmpl.Execute(&text, data); err != nil {
		return domain.Notification{}, false, fmt.Errorf("notify.BuildMessage: text body: %w", err)
	}
	var html bytes.Buffer
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return domain.Notification{}, false, fmt.Errorf("notify.BuildMessage: html body: %w", err)
	}

	return domain.Notification{
		Recipient:   recipient,
		Subject:     Subject(doc),
		TextBody:    strings.TrimSpace(text.String()),
		HTMLBody:    html.String(),
		OrderNumber: doc.Order.Name,
		InvoiceURL:  invoiceURL,
	}, true, nil
}

type messageData struct {
	Doc          *invoice.Document
	Company      domain.CompanyConfig
	URL          string
	Jurisdiction string
}

const rule = "----------------------------------------------------------------------"

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"rule": func() string { return rule },
}

var textTmpl = template.Must(template.New("text").Funcs(funcs).Parse(`
{{.Company.Name}}
{{with .Company.LegalName}}{{.}}
{{end}}{{with .Company.Address.Line1}}{{.}}
{{end}}{{with .Company.Address.Line2}}{{.}}
{{end}}{{with .Company.GSTIN}}GSTIN: {{.}}
{{end}}
I N V O I C E
{{rule}}

ORDER DETAILS
Order Number: {{.Doc.Order.Name}}
Order Date:   {{.Doc.Order.Date}}

SHIPPING ADDRESS
{{with .Doc.ShippingAddress}}{{.Name}}
{{.Address}}
{{.City}}, {{.State}} {{.Zip}}
{{end}}
{{rule}}

ITEMS ORDERED:
{{range $i, $row := .Doc.LineItems}}
  {{inc $i}}. {{$row.Name}}
{{- with $row.Description}}
     {{.}}{{end}}
     Qty: {{$row.Quantity}}  |  MRP: {{$row.MRP}}  |  Discount: {{$row.Discount}}  |  Tax: {{$row.Tax}}  |  Amount: {{$row.SellingPriceAfterTax}}
{{end}}
{{rule}}

PAYMENT SUMMARY:

Subtotal:              {{.Doc.Totals.Subtotal}}
{{with .Doc.Totals.Discount}}Discount:              {{.}}
{{end}}Shipping:              {{.Doc.Totals.Shipping}}
{{with .Doc.Totals.CGST}}CGST:                  {{.}}
{{end}}{{with .Doc.Totals.SGST}}SGST:                  {{.}}
{{end}}{{with .Doc.Totals.IGST}}IGST:                  {{.}}
{{end}}Total Tax:             {{.Doc.Totals.Tax}}

TOTAL:                 {{.Doc.Totals.Total}}

{{rule}}

DOWNLOAD YOUR PDF INVOICE:
{{.URL}}

{{rule}}
{{with .Doc.Order.Notes}}
NOTES:
{{.}}

{{rule}}
{{end}}
Thank you for your business!

For any queries, please contact us at:
Email: {{.Company.Email}}
{{with .Company.Phone}}Phone: {{.}}
{{end}}
{{rule}}

LEGAL DISCLAIMER:
* All disputes are subject to {{.Jurisdiction}} jurisdiction only.
* Goods once sold will only be taken back or exchanged as per the store's
  exchange/return policy.

This is an automated invoice notification from {{.Company.Name}}.
`))

var htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 640px; margin: 0 auto; padding: 20px; color: #1a1a1a;">
  <h2 style="margin-bottom: 4px;">{{.Company.Name}}</h2>
  {{with .Company.LegalName}}<p style="margin: 0; color: #666;">{{.}}</p>{{end}}
  {{with .Company.GSTIN}}<p style="margin: 0; color: #666;">GSTIN: {{.}}</p>{{end}}
  <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
  <p>Invoice for order <strong>{{.Doc.Order.Name}}</strong>{{with .Doc.Order.Date}} placed on {{.}}{{end}}.</p>
  <table style="width: 100%; border-collapse: collapse; font-size: 13px;">
    <tr style="background-color: #333; color: #fff;">
      <th style="text-align: left; padding: 6px;">Item</th>
      <th style="text-align: right; padding: 6px;">Discount</th>
      <th style="text-align: right; padding: 6px;">Tax</th>
      <th style="text-align: right; padding: 6px;">Amount</th>
    </tr>
    {{range .Doc.LineItems}}<tr>
      <td style="padding: 6px; border-bottom: 1px solid #ddd;">{{.Name}}</td>
      <td style="text-align: right; padding: 6px; border-bottom: 1px solid #ddd;">{{.Discount}}</td>
      <td style="text-align: right; padding: 6px; border-bottom: 1px solid #ddd;">{{.Tax}}</td>
      <td style="text-align: right; padding: 6px; border-bottom: 1px solid #ddd;">{{.SellingPriceAfterTax}}</td>
    </tr>
    {{end}}
  </table>
  <p style="text-align: right;">Total Tax: {{.Doc.Totals.Tax}}<br><strong>Total: {{.Doc.Totals.Total}}</strong></p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="{{.URL}}" style="background-color: #0066cc; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Download Invoice</a>
  </p>
  <p style="color: #666;">Questions? Contact us at {{.Company.Email}}.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">All disputes are subject to {{.Jurisdiction}} jurisdiction only.</p>
</body>
</html>`))
