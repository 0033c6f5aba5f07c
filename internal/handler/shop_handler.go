package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicer/internal/csvexport"
	"invoicer/internal/domain"
	"invoicer/internal/service"
	"invoicer/internal/templateconfig"
)

// TemplateService reads and writes per-shop template configuration.
type TemplateService interface {
	Lookup(ctx context.Context, shop string) domain.RawTemplateConfig
	Update(ctx context.Context, shop string, in templateconfig.UpdateInput) (*domain.ShopTemplate, error)
}

// ShopHandler serves per-shop invoice records and template settings.
type ShopHandler struct {
	invoices  service.InvoiceService
	templates TemplateService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(invoices service.InvoiceService, templates TemplateService) *ShopHandler {
	return &ShopHandler{invoices: invoices, templates: templates}
}

// ListInvoices handles GET /api/v1/shops/:shop/invoices
// With ?format=csv the current page is exported as a CSV attachment.
func (h *ShopHandler) ListInvoices(c *gin.Context) {
	shop := c.Param("shop")
	offset, limit := parsePagination(c)

	recs, total, err := h.invoices.ListInvoices(c.Request.Context(), shop, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		RespondCSV(c, csvexport.BuildFilename(shop+"_invoices"), func(w *csvexport.Writer) error {
			if err := w.WriteRecordHeader(); err != nil {
				return err
			}
			return w.WriteRecords(recs)
		})
		return
	}

	if recs == nil {
		recs = []domain.OrderInvoice{}
	}
	RespondPaginated(c, recs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetInvoice handles GET /api/v1/shops/:shop/invoices/:order
func (h *ShopHandler) GetInvoice(c *gin.Context) {
	rec, err := h.invoices.GetInvoice(c.Request.Context(), c.Param("shop"), c.Param("order"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// GetTemplate handles GET /api/v1/shops/:shop/template
// Returns the merged raw configuration and where it came from.
func (h *ShopHandler) GetTemplate(c *gin.Context) {
	RespondOK(c, h.templates.Lookup(c.Request.Context(), c.Param("shop")))
}

// UpdateTemplate handles PUT /api/v1/shops/:shop/template
func (h *ShopHandler) UpdateTemplate(c *gin.Context) {
	var in templateconfig.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	st, err := h.templates.Update(c.Request.Context(), c.Param("shop"), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, st)
}
