package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/handler"
	"invoicer/internal/shopify"
	"invoicer/mocks"
)

func shopIs(shop string) interface{} {
	return mock.MatchedBy(func(wh *shopify.Webhook) bool { return wh.Shop == shop })
}

func TestWebhookHandler_Sync_Success(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "fallback.myshopify.com", false, zap.NewNop())

	svc.On("Process", mock.Anything, shopIs("pista-green.myshopify.com")).Return(&domain.InvoiceResult{
		Message:     "Invoice generated and uploaded to S3 successfully",
		OrderNumber: "#PG1229",
		PDFSize:     "12.40 KB",
	}, nil)

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(orderJSON))
	c.Request.Header.Set(shopify.HeaderShopDomain, "pista-green.myshopify.com")
	h.OrderCreated(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "#PG1229", data["orderNumber"])
	svc.AssertExpectations(t)
}

func TestWebhookHandler_Sync_DefaultShop(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "fallback.myshopify.com", false, zap.NewNop())

	svc.On("Process", mock.Anything, shopIs("fallback.myshopify.com")).Return(&domain.InvoiceResult{}, nil)

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(orderJSON))
	h.OrderCreated(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestWebhookHandler_MalformedBody(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "", false, zap.NewNop())

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(`[1,2,3]`))
	h.OrderCreated(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_ORDER_PAYLOAD", resp.Error.Code)
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestWebhookHandler_Sync_UpstreamParse(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "", false, zap.NewNop())

	svc.On("Process", mock.Anything, mock.Anything).Return(nil, domain.ErrUpstreamParse)

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(`{"name":"#1"}`))
	h.OrderCreated(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ORDER_PAYLOAD", decode(t, w).Error.Code)
}

func TestWebhookHandler_Sync_UploadFailed(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "", false, zap.NewNop())

	svc.On("Process", mock.Anything, mock.Anything).Return(nil, domain.ErrUploadFailed)

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(orderJSON))
	h.OrderCreated(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "UPLOAD_FAILED", decode(t, w).Error.Code)
}

func TestWebhookHandler_Async_Queued(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewWebhookHandler(svc, "", true, zap.NewNop())

	rec := &domain.OrderInvoice{
		ID:        uuid.New(),
		Shop:      "pista-green.myshopify.com",
		OrderName: "#PG1229",
		Status:    domain.InvoiceStatusQueued,
	}
	svc.On("Enqueue", mock.Anything, shopIs("pista-green.myshopify.com")).Return(rec, nil)

	c, w := newContext(http.MethodPost, "/webhooks/shopify/orders", []byte(orderJSON))
	c.Request.Header.Set(shopify.HeaderShopDomain, "pista-green.myshopify.com")
	h.OrderCreated(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "queued", data["status"])
	svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}
