package handler

import (
	"github.com/gin-gonic/gin"

	"invoicer/internal/csvexport"
	"invoicer/internal/middleware"
	"invoicer/internal/service"
	"invoicer/internal/shopify"
)

// InvoiceHandler serves side-effect free invoice previews.
type InvoiceHandler struct {
	invoices    service.InvoiceService
	defaultShop string
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoices service.InvoiceService, defaultShop string) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, defaultShop: defaultShop}
}

// readPreview parses the order and pins it to the authenticated shop.
func (h *InvoiceHandler) readPreview(c *gin.Context) (*shopify.Webhook, bool) {
	wh, ok := readWebhook(c, h.defaultShop)
	if !ok {
		return nil, false
	}
	if shop := middleware.GetShop(c); shop != "" {
		wh.Shop = shop
	}
	return wh, true
}

// Preview handles POST /api/v1/invoices/preview
// Returns the transformed document together with its audit report.
func (h *InvoiceHandler) Preview(c *gin.Context) {
	wh, ok := h.readPreview(c)
	if !ok {
		return
	}
	res, err := h.invoices.Preview(c.Request.Context(), wh)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, res)
}

// PreviewCSV handles POST /api/v1/invoices/preview.csv
func (h *InvoiceHandler) PreviewCSV(c *gin.Context) {
	wh, ok := h.readPreview(c)
	if !ok {
		return
	}
	res, err := h.invoices.Preview(c.Request.Context(), wh)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCSV(c, csvexport.BuildFilename(res.Document.Order.Name), func(w *csvexport.Writer) error {
		if err := w.WriteUnitHeader(); err != nil {
			return err
		}
		return w.WriteDocument(res.Document)
	})
}
