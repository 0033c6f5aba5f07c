package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoicer/internal/middleware"
	"invoicer/internal/service"
	"invoicer/internal/shopify"
)

// maxOrderBody caps the order payload read from a request.
const maxOrderBody = 5 << 20

// WebhookHandler receives Shopify order deliveries.
type WebhookHandler struct {
	invoices    service.InvoiceService
	defaultShop string
	async       bool
	log         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler. With async set, orders are
// queued and acknowledged with 202; otherwise the invoice is generated inline.
func NewWebhookHandler(invoices service.InvoiceService, defaultShop string, async bool, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{invoices: invoices, defaultShop: defaultShop, async: async, log: log.Named("webhook")}
}

// OrderCreated handles POST /webhooks/shopify/orders
func (h *WebhookHandler) OrderCreated(c *gin.Context) {
	wh, ok := readWebhook(c, h.defaultShop)
	if !ok {
		return
	}
	log := h.log.With(
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("shop", wh.Shop),
		zap.String("order", wh.Order.Name.String()),
		zap.String("topic", c.GetHeader(shopify.HeaderTopic)),
	)

	if h.async {
		rec, err := h.invoices.Enqueue(c.Request.Context(), wh)
		if err != nil {
			log.Warn("enqueue rejected", zap.Error(err))
			HandleError(c, err)
			return
		}
		log.Info("order queued", zap.String("id", rec.ID.String()))
		RespondAccepted(c, rec)
		return
	}

	result, err := h.invoices.Process(c.Request.Context(), wh)
	if err != nil {
		log.Warn("invoice generation failed", zap.Error(err))
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// readWebhook reads and decodes the request body, writing a 400 on failure.
func readWebhook(c *gin.Context, defaultShop string) (*shopify.Webhook, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxOrderBody))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return nil, false
	}
	wh, err := shopify.ParseWebhook(body, c.Request.Header, defaultShop)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return wh, true
}
