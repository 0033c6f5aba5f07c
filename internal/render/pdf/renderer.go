// Package pdf renders invoice documents as A4 PDFs.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/gst"
	"invoicer/internal/invoice"
	"invoicer/internal/port"
	"invoicer/internal/templateconfig"
)

const (
	margin        = 15.0
	ptToMM        = 0.3528
	mutedColor    = "#6b7280"
	discountColor = "#dc2626"
	logoWidth     = 30.0
	signatureH    = 14.0
)

type renderer struct {
	assets port.AssetLoader
	log    *zap.Logger
}

// NewRenderer creates the PDF InvoiceRenderer. assets may be nil, in which
// case logos and signatures are never drawn.
func NewRenderer(assets port.AssetLoader, log *zap.Logger) port.InvoiceRenderer {
	return &renderer{assets: assets, log: log.Named("pdf")}
}

func (r *renderer) Render(ctx context.Context, doc *invoice.Document, cfg domain.TemplateConfig) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf.Render: nil document: %w", domain.ErrRenderFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(margin, margin, margin)
	f.SetAutoPageBreak(true, margin)
	f.SetTitle("Invoice "+doc.Order.Name, true)
	f.SetAuthor(cfg.Company.Name, true)
	f.SetCreator("invoicer", true)
	f.AddPage()

	pageW, pageH := f.GetPageSize()
	w := &writer{
		ctx:      ctx,
		f:        f,
		cfg:      cfg,
		tr:       f.UnicodeTranslatorFromDescriptor(""),
		r:        r,
		contentW: pageW - 2*margin,
		pageW:    pageW,
		pageH:    pageH,
	}
	w.header()
	w.orderDetails(doc)
	w.items(doc)
	w.totals(doc)
	w.signature()
	w.footer(doc)

	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("pdf.Render %s: %v: %w", doc.Order.Name, err, domain.ErrRenderFailed)
	}
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf.Render %s: output: %v: %w", doc.Order.Name, err, domain.ErrRenderFailed)
	}
	return buf.Bytes(), nil
}

type writer struct {
	ctx      context.Context
	f        *gofpdf.Fpdf
	cfg      domain.TemplateConfig
	tr       func(string) string
	r        *renderer
	contentW float64
	pageW    float64
	pageH    float64
}

func (w *writer) font(name string, size float64) {
	family, style := fontSpec(name)
	w.f.SetFont(family, style, size)
}

func (w *writer) bold(size float64) {
	family, _ := fontSpec(w.cfg.Fonts.Family)
	w.f.SetFont(family, "B", size)
}

func (w *writer) textColor(hex, fallback string) {
	w.f.SetTextColor(rgb(hex, fallback))
}

func (w *writer) fillColor(hex, fallback string) {
	w.f.SetFillColor(rgb(hex, fallback))
}

func (w *writer) drawColor(hex, fallback string) {
	w.f.SetDrawColor(rgb(hex, fallback))
}

func lineHeight(size float64) float64 {
	return size * ptToMM * 1.35
}

func (w *writer) ensureSpace(h float64) bool {
	if w.f.GetY()+h <= w.pageH-margin {
		return false
	}
	w.f.AddPage()
	return true
}

func (w *writer) rule() {
	y := w.f.GetY()
	w.drawColor(w.cfg.Colors.Border, templateconfig.DefaultBorderColor)
	w.f.SetLineWidth(0.2)
	w.f.Line(margin, y, w.pageW-margin, y)
}

func (w *writer) header() {
	c := w.cfg.Company
	top := w.f.GetY()
	textW := w.contentW - logoWidth - 5

	w.font(w.cfg.Fonts.Heading, w.cfg.Fonts.TitleSize)
	w.textColor(w.cfg.Colors.Accent, templateconfig.DefaultAccentColor)
	w.f.MultiCell(textW, lineHeight(w.cfg.Fonts.TitleSize), w.tr(c.Name), "", "L", false)
	w.f.Ln(1)

	lh := lineHeight(w.cfg.Fonts.BodySize)
	w.font(w.cfg.Fonts.Body, w.cfg.Fonts.BodySize)
	w.textColor(mutedColor, mutedColor)
	lines := []string{c.LegalName, c.Address.Line1, c.Address.Line2}
	if loc := joinNonEmpty(", ", c.Address.City, c.Address.State, c.Address.Pincode); loc != "" {
		lines = append(lines, loc)
	}
	lines = append(lines, "GSTIN: "+c.GSTIN)
	if c.PAN != "" {
		lines = append(lines, "PAN: "+c.PAN)
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}
	for _, l := range lines {
		w.f.CellFormat(textW, lh, w.tr(l), "", 1, "L", false, 0, "")
	}

	bottom := w.f.GetY()
	if h, ok := w.image(c.Logo, w.pageW-margin-logoWidth, top, logoWidth, 0); ok && top+h > bottom {
		bottom = top + h
	}
	w.f.SetY(bottom + 4)
	w.rule()
	w.f.Ln(5)
}

func (w *writer) orderDetails(doc *invoice.Document) {
	half := w.contentW / 2
	headingSize := w.cfg.Fonts.HeadingSize - 4
	lh := lineHeight(w.cfg.Fonts.BodySize)

	w.font(w.cfg.Fonts.Heading, headingSize)
	w.textColor(w.cfg.Colors.Primary, templateconfig.DefaultPrimaryColor)
	w.f.CellFormat(half, lineHeight(headingSize), "Order Details", "", 0, "L", false, 0, "")
	w.f.CellFormat(half, lineHeight(headingSize), "Shipping Address", "", 1, "R", false, 0, "")
	w.f.Ln(1)

	left := []string{"Order Number: " + doc.Order.Name}
	if doc.Order.Date != "" {
		left = append(left, "Order Date: "+doc.Order.Date)
	}

	sa := doc.ShippingAddress
	right := []string{firstNonEmpty(sa.Name, doc.Customer.Name)}
	if sa.Address != "" {
		right = append(right, sa.Address)
	}
	if loc := joinNonEmpty(", ", sa.City, joinNonEmpty(" ", sa.State, sa.Zip)); loc != "" {
		right = append(right, loc)
	}
	if doc.Customer.Phone != nil {
		right = append(right, "Phone: "+*doc.Customer.Phone)
	}

	w.font(w.cfg.Fonts.Body, w.cfg.Fonts.BodySize)
	w.textColor(w.cfg.Colors.Secondary, templateconfig.DefaultSecondaryColor)
	for i := 0; i < len(left) || i < len(right); i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		w.f.CellFormat(half, lh, w.tr(l), "", 0, "L", false, 0, "")
		w.f.CellFormat(half, lh, w.tr(r), "", 1, "R", false, 0, "")
	}
	w.f.Ln(6)
}

type column struct {
	title string
	width float64
	align string
	value func(invoice.UnitRow) string
}

func (w *writer) columns(regime gst.Regime) []column {
	item := func(u invoice.UnitRow) string {
		if u.Description != nil {
			return u.Name + "\n" + *u.Description
		}
		return u.Name
	}
	qty := func(u invoice.UnitRow) string { return fmt.Sprintf("%d", u.Quantity) }
	mrp := func(u invoice.UnitRow) string { return u.MRP.String() }
	disc := func(u invoice.UnitRow) string { return u.Discount.String() }
	pre := func(u invoice.UnitRow) string { return u.SellingPrice.String() }
	post := func(u invoice.UnitRow) string { return u.SellingPriceAfterTax.String() }

	if regime == gst.RegimeIntrastate {
		return []column{
			{"Item", 50, "L", item},
			{"Qty", 10, "C", qty},
			{"MRP", 19, "R", mrp},
			{"Discount", 18, "R", disc},
			{"Price before tax", 22, "R", pre},
			{"CGST", 18, "R", func(u invoice.UnitRow) string { return u.CGST.String() }},
			{"SGST", 18, "R", func(u invoice.UnitRow) string { return u.SGST.String() }},
			{"Price after tax", 25, "R", post},
		}
	}
	return []column{
		{"Item", 58, "L", item},
		{"Qty", 10, "C", qty},
		{"MRP", 20, "R", mrp},
		{"Discount", 20, "R", disc},
		{"Price before tax", 24, "R", pre},
		{"IGST", 22, "R", func(u invoice.UnitRow) string { return u.IGST.String() }},
		{"Price after tax", 26, "R", post},
	}
}

func (w *writer) items(doc *invoice.Document) {
	headingSize := w.cfg.Fonts.HeadingSize - 4
	w.font(w.cfg.Fonts.Heading, headingSize)
	w.textColor(w.cfg.Colors.Primary, templateconfig.DefaultPrimaryColor)
	w.f.CellFormat(w.contentW, lineHeight(headingSize), "Items", "", 1, "L", false, 0, "")
	w.f.Ln(1)

	cols := w.columns(doc.Regime)
	w.tableHeader(cols)

	size := w.cfg.Fonts.TableSize
	lh := lineHeight(size)
	for _, row := range doc.LineItems {
		w.font(w.cfg.Fonts.Body, size)
		cells := make([][]string, len(cols))
		rows := 1
		for i, col := range cols {
			cells[i] = w.wrap(col.value(row), col.width-2)
			if len(cells[i]) > rows {
				rows = len(cells[i])
			}
		}
		rowH := float64(rows)*lh + 2

		if w.ensureSpace(rowH) {
			w.tableHeader(cols)
			w.font(w.cfg.Fonts.Body, size)
		}
		w.textColor(w.cfg.Colors.Primary, templateconfig.DefaultPrimaryColor)
		y := w.f.GetY()
		x := margin
		for i, col := range cols {
			w.drawLines(x, y+1, col.width, lh, cells[i], col.align)
			x += col.width
		}
		w.f.SetXY(margin, y+rowH)
		w.rule()
	}
	w.f.Ln(4)
}

func (w *writer) tableHeader(cols []column) {
	size := w.cfg.Fonts.TableSize
	lh := lineHeight(size)
	w.bold(size)

	cells := make([][]string, len(cols))
	rows := 1
	for i, col := range cols {
		cells[i] = w.wrap(col.title, col.width-2)
		if len(cells[i]) > rows {
			rows = len(cells[i])
		}
	}
	h := float64(rows)*lh + 3

	y := w.f.GetY()
	w.fillColor(w.cfg.Styling.HeaderBackgroundColor, templateconfig.DefaultHeaderBG)
	w.f.Rect(margin, y, w.contentW, h, "F")
	w.textColor(w.cfg.Styling.HeaderTextColor, templateconfig.DefaultHeaderText)
	x := margin
	for i, col := range cols {
		w.drawLines(x, y+1.5, col.width, lh, cells[i], col.align)
		x += col.width
	}
	w.f.SetXY(margin, y+h)
}

func (w *writer) wrap(text string, width float64) []string {
	var out []string
	for _, part := range strings.Split(w.tr(text), "\n") {
		for _, l := range w.f.SplitLines([]byte(part), width) {
			out = append(out, string(l))
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func (w *writer) drawLines(x, y, width, lh float64, lines []string, align string) {
	for i, l := range lines {
		w.f.SetXY(x, y+float64(i)*lh)
		w.f.CellFormat(width, lh, l, "", 0, align, false, 0, "")
	}
}

func (w *writer) totals(doc *invoice.Document) {
	t := doc.Totals
	size := w.cfg.Fonts.BodySize
	lh := lineHeight(size) + 1

	type line struct {
		label, value, color string
	}
	lines := []line{{"Subtotal (before tax):", t.Subtotal.String(), ""}}
	if t.CGST != nil {
		lines = append(lines, line{"CGST:", t.CGST.String(), ""})
	}
	if t.SGST != nil {
		lines = append(lines, line{"SGST:", t.SGST.String(), ""})
	}
	if t.IGST != nil {
		lines = append(lines, line{"IGST:", t.IGST.String(), ""})
	}
	lines = append(lines, line{"Total Tax:", t.Tax.String(), ""})
	if t.Discount != nil {
		lines = append(lines, line{"Discount:", t.Discount.String(), discountColor})
	}
	lines = append(lines, line{"Shipping:", t.Shipping.String(), ""})

	w.ensureSpace(float64(len(lines)+2) * lh)

	labelW, valueW := 55.0, 35.0
	x := w.pageW - margin - labelW - valueW
	w.font(w.cfg.Fonts.Body, size)
	for _, l := range lines {
		w.f.SetX(x)
		w.textColor(w.cfg.Colors.Secondary, templateconfig.DefaultSecondaryColor)
		w.f.CellFormat(labelW, lh, l.label, "", 0, "L", false, 0, "")
		if l.color != "" {
			w.textColor(l.color, discountColor)
		} else {
			w.textColor(w.cfg.Colors.Primary, templateconfig.DefaultPrimaryColor)
		}
		w.f.CellFormat(valueW, lh, l.value, "", 1, "R", false, 0, "")
	}

	w.f.Ln(2)
	y := w.f.GetY()
	boxH := lh + 3
	w.fillColor(w.cfg.Styling.HeaderBackgroundColor, templateconfig.DefaultHeaderBG)
	w.f.Rect(x-2, y, labelW+valueW+2, boxH, "F")
	w.bold(size + 1)
	w.textColor(w.cfg.Styling.HeaderTextColor, templateconfig.DefaultHeaderText)
	w.f.SetXY(x, y+1.5)
	w.f.CellFormat(labelW, lh, "TOTAL:", "", 0, "L", false, 0, "")
	w.f.CellFormat(valueW, lh, t.Total.String(), "", 1, "R", false, 0, "")
	w.f.SetY(y + boxH)
}

func (w *writer) signature() {
	c := w.cfg.Company
	if !c.IncludeSignature || c.Signature == "" {
		return
	}
	size := w.cfg.Fonts.BodySize - 1
	lh := lineHeight(size)
	blockW := 50.0
	w.ensureSpace(lh*3 + signatureH + 4)

	w.f.Ln(lh * 2)
	y := w.f.GetY()
	x := w.pageW - margin - blockW
	h, ok := w.image(c.Signature, x+5, y, 0, signatureH)
	if !ok {
		w.f.SetY(y)
		return
	}

	lineY := y + h + 1
	w.drawColor(w.cfg.Colors.Primary, templateconfig.DefaultPrimaryColor)
	w.f.Line(x, lineY, x+blockW, lineY)
	w.font(w.cfg.Fonts.Body, size)
	w.textColor(mutedColor, mutedColor)
	w.f.SetXY(x, lineY+1)
	w.f.CellFormat(blockW, lh, "Authorized Signatory", "", 1, "C", false, 0, "")
}

func (w *writer) footer(doc *invoice.Document) {
	c := w.cfg.Company
	size := w.cfg.Fonts.BodySize - 1
	lh := lineHeight(size)
	w.f.Ln(lh * 3)

	if doc.Order.Notes != "" {
		headingSize := w.cfg.Fonts.HeadingSize - 4
		w.font(w.cfg.Fonts.Heading, headingSize)
		w.textColor(mutedColor, mutedColor)
		w.f.CellFormat(w.contentW, lineHeight(headingSize), "NOTES", "", 1, "L", false, 0, "")
		w.font(w.cfg.Fonts.Body, size)
		w.f.MultiCell(w.contentW, lh, w.tr(doc.Order.Notes), "", "L", false)
	}

	w.font(w.cfg.Fonts.Body, size)
	w.textColor(mutedColor, mutedColor)
	if c.Email != "" {
		w.f.Ln(lh / 2)
		w.f.MultiCell(w.contentW, lh, w.tr("If you have any questions, please contact at "+c.Email), "", "L", false)
	}
	w.f.Ln(lh / 2)
	w.f.MultiCell(w.contentW, lh, w.tr(Disclaimer(c.Address.State)), "", "L", false)
}

// Disclaimer is the jurisdiction clause printed at the foot of every invoice.
func Disclaimer(state string) string {
	if state == "" {
		state = "the respective"
	}
	return "All disputes are subject to " + state + " jurisdiction only. " +
		"Goods once sold will only be taken back or exchanged as per the store's exchange/return policy"
}

// image draws the asset ref and returns the height it occupies. Missing or
// undecodable images are logged and skipped.
func (w *writer) image(ref string, x, y, width, height float64) (float64, bool) {
	if ref == "" || w.r.assets == nil {
		return 0, false
	}
	log := w.r.log.With(zap.String("asset", ref))

	data, err := w.r.assets.Load(w.ctx, ref)
	if err != nil {
		log.Warn("image unavailable, skipping", zap.Error(err))
		return 0, false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Warn("image is not a supported format, skipping", zap.Error(err))
		return 0, false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType(format), ReadDpi: true}
	info := w.f.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
	if w.f.Err() || info == nil {
		log.Warn("image could not be embedded, skipping", zap.Error(w.f.Error()))
		w.f.ClearError()
		return 0, false
	}

	w.f.ImageOptions(ref, x, y, width, height, false, opts, 0, "")
	switch {
	case height > 0:
		return height, true
	case info.Width() > 0:
		return info.Height() * width / info.Width(), true
	default:
		return 0, true
	}
}

func imageType(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	}
	return strings.ToUpper(format)
}

// fontSpec maps names like "Helvetica-Bold" onto a core PDF family and style.
// Unknown families fall back to Helvetica.
func fontSpec(name string) (family, style string) {
	family, variant, _ := strings.Cut(name, "-")
	switch strings.ToLower(family) {
	case "helvetica", "arial":
		family = "Helvetica"
	case "times", "times new roman":
		family = "Times"
	case "courier", "courier new":
		family = "Courier"
	default:
		family = "Helvetica"
	}

	v := strings.ToLower(variant)
	if strings.Contains(v, "bold") {
		style += "B"
	}
	if strings.Contains(v, "oblique") || strings.Contains(v, "italic") {
		style += "I"
	}
	return family, style
}

func rgb(hex, fallback string) (r, g, b int) {
	if r, g, b, ok := templateconfig.ParseHexColor(hex); ok {
		return r, g, b
	}
	r, g, b, _ = templateconfig.ParseHexColor(fallback)
	return r, g, b
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
