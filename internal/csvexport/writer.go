package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// unitColumns is the header of an invoice's unit-row export.
var unitColumns = []string{
	"Order",
	"Order Date",
	"Regime",
	"Row",
	"Item",
	"Description",
	"SKU",
	"HSN Code",
	"Qty",
	"MRP",
	"Discount",
	"Price Before Tax",
	"Tax Rate",
	"CGST",
	"SGST",
	"IGST",
	"Tax",
	"Price After Tax",
	"Currency",
}

// recordColumns is the header of a shop's invoice record export.
var recordColumns = []string{
	"Order",
	"Status",
	"Invoice Generated",
	"Generated At",
	"S3 Key",
	"Attempts",
	"Audit Warnings",
	"Last Error",
	"Created At",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteUnitHeader writes the unit-row header.
func (w *Writer) WriteUnitHeader() error {
	return w.csv.Write(unitColumns)
}

// WriteDocument writes one line per unit row of doc.
func (w *Writer) WriteDocument(doc *invoice.Document) error {
	for i := range doc.LineItems {
		if err := w.csv.Write(unitToRow(doc, i)); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecordHeader writes the invoice record header.
func (w *Writer) WriteRecordHeader() error {
	return w.csv.Write(recordColumns)
}

// WriteRecords writes a batch of order invoice records.
func (w *Writer) WriteRecords(recs []domain.OrderInvoice) error {
	for i := range recs {
		if err := w.csv.Write(recordToRow(&recs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func unitToRow(doc *invoice.Document, i int) []string {
	u := &doc.LineItems[i]
	return []string{
		doc.Order.Name,
		doc.Order.Date,
		string(doc.Regime),
		strconv.Itoa(i + 1),
		u.Name,
		deref(u.Description),
		deref(u.SKU),
		u.HSNCode,
		strconv.Itoa(u.Quantity),
		u.MRP.Fixed(),
		u.Discount.Fixed(),
		u.SellingPrice.Fixed(),
		strconv.FormatFloat(u.TaxRate, 'f', -1, 64),
		u.CGST.Fixed(),
		u.SGST.Fixed(),
		u.IGST.Fixed(),
		u.Tax.Fixed(),
		u.SellingPriceAfterTax.Fixed(),
		doc.Currency,
	}
}

func recordToRow(r *domain.OrderInvoice) []string {
	return []string{
		r.OrderName,
		string(r.Status),
		formatBool(r.InvoiceGenerated),
		formatTime(r.InvoiceGeneratedAt),
		deref(r.S3Key),
		strconv.Itoa(r.Attempts),
		strconv.Itoa(r.AuditWarnings),
		r.LastError,
		r.CreatedAt.Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an order or shop name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "invoice"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
