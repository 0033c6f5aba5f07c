package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"invoicer/internal/domain"
	"invoicer/internal/handler"
	"invoicer/internal/logger"
	"invoicer/internal/service"
	"invoicer/internal/templateconfig"
	"invoicer/mocks"
)

const shop = "pista-green.myshopify.com"

func withParams(c *gin.Context, kv ...string) {
	for i := 0; i+1 < len(kv); i += 2 {
		c.Params = append(c.Params, gin.Param{Key: kv[i], Value: kv[i+1]})
	}
}

func sampleRecords() []domain.OrderInvoice {
	key := "shops/pista-green-myshopify-com/invoices/invoice-PG1229-1766982245000.pdf"
	at := time.Date(2025, 12, 29, 4, 24, 5, 0, time.UTC)
	return []domain.OrderInvoice{
		{ID: uuid.New(), Shop: shop, OrderName: "#PG1229", Status: domain.InvoiceStatusGenerated, S3Key: &key, InvoiceGenerated: true, InvoiceGeneratedAt: &at},
		{ID: uuid.New(), Shop: shop, OrderName: "#PG1230", Status: domain.InvoiceStatusQueued},
	}
}

func TestShopHandler_ListInvoices(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))

	svc.On("ListInvoices", mock.Anything, shop, 0, 20).Return(sampleRecords(), 2, nil)

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/invoices", nil)
	withParams(c, "shop", shop)
	h.ListInvoices(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
	assert.Len(t, resp.Data, 2)
	svc.AssertExpectations(t)
}

func TestShopHandler_ListInvoices_PaginationClamped(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))

	svc.On("ListInvoices", mock.Anything, shop, 0, 20).Return(nil, 0, nil)

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/invoices?offset=-5&limit=1000", nil)
	withParams(c, "shop", shop)
	h.ListInvoices(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w).Data)
	svc.AssertExpectations(t)
}

func TestShopHandler_ListInvoices_CSV(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))

	svc.On("ListInvoices", mock.Anything, shop, 10, 5).Return(sampleRecords(), 12, nil)

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/invoices?format=csv&offset=10&limit=5", nil)
	withParams(c, "shop", shop)
	h.ListInvoices(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pista-green_myshopify_com_invoices_")
	lines := strings.Split(strings.TrimSpace(w.Body.String()[3:]), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "#PG1229,generated,Yes"))
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestShopHandler_ListInvoices_CSVWriteErrorLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger.SetGlobal(zap.New(core))
	t.Cleanup(func() { logger.SetGlobal(zap.NewNop()) })

	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))
	svc.On("ListInvoices", mock.Anything, shop, 0, 20).Return(sampleRecords(), 2, nil)

	c, _ := gin.CreateTestContext(brokenWriter{httptest.NewRecorder()})
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/shops/"+shop+"/invoices?format=csv", http.NoBody)
	withParams(c, "shop", shop)
	h.ListInvoices(c)

	entries := logs.FilterMessage("csv export failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
}

func TestShopHandler_GetInvoice(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))

	recs := sampleRecords()
	svc.On("GetInvoice", mock.Anything, shop, "PG1229").Return(&service.InvoiceRecord{
		Invoice:     &recs[0],
		DownloadURL: "https://bucket.s3.amazonaws.com/signed",
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/invoices/PG1229", nil)
	withParams(c, "shop", shop, "order", "PG1229")
	h.GetInvoice(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "https://bucket.s3.amazonaws.com/signed", data["download_url"])
}

func TestShopHandler_GetInvoice_NotFound(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	h := handler.NewShopHandler(svc, new(mocks.MockTemplateService))

	svc.On("GetInvoice", mock.Anything, shop, "PG9999").Return(nil, domain.ErrNotFound)

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/invoices/PG9999", nil)
	withParams(c, "shop", shop, "order", "PG9999")
	h.GetInvoice(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w).Error.Code)
}

func TestShopHandler_GetTemplate(t *testing.T) {
	tpl := new(mocks.MockTemplateService)
	h := handler.NewShopHandler(new(mocks.MockInvoiceService), tpl)

	tpl.On("Lookup", mock.Anything, shop).Return(domain.RawTemplateConfig{
		Source:     domain.TemplateSourceDatabase,
		TemplateID: "classic",
	})

	c, w := newContext(http.MethodGet, "/api/v1/shops/"+shop+"/template", nil)
	withParams(c, "shop", shop)
	h.GetTemplate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "database", data["source"])
	assert.Equal(t, "classic", data["templateId"])
}

func TestShopHandler_UpdateTemplate(t *testing.T) {
	tpl := new(mocks.MockTemplateService)
	h := handler.NewShopHandler(new(mocks.MockInvoiceService), tpl)

	tpl.On("Update", mock.Anything, shop, mock.AnythingOfType("templateconfig.UpdateInput")).
		Return(&domain.ShopTemplate{Shop: shop, TemplateID: "classic"}, nil)

	body := []byte(`{"templateId":"classic","styling":{"primaryColor":"#112233"}}`)
	c, w := newContext(http.MethodPut, "/api/v1/shops/"+shop+"/template", body)
	withParams(c, "shop", shop)
	h.UpdateTemplate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	in := tpl.Calls[0].Arguments.Get(2).(templateconfig.UpdateInput)
	assert.Equal(t, "classic", in.TemplateID)
	assert.Equal(t, "#112233", in.Styling.PrimaryColor)
}

func TestShopHandler_UpdateTemplate_Invalid(t *testing.T) {
	tpl := new(mocks.MockTemplateService)
	h := handler.NewShopHandler(new(mocks.MockInvoiceService), tpl)

	tpl.On("Update", mock.Anything, shop, mock.Anything).Return(nil, domain.ErrInvalidTemplate)

	c, w := newContext(http.MethodPut, "/api/v1/shops/"+shop+"/template", []byte(`{"styling":{"primaryColor":"red"}}`))
	withParams(c, "shop", shop)
	h.UpdateTemplate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_TEMPLATE", decode(t, w).Error.Code)
}

func TestShopHandler_UpdateTemplate_BadJSON(t *testing.T) {
	tpl := new(mocks.MockTemplateService)
	h := handler.NewShopHandler(new(mocks.MockInvoiceService), tpl)

	c, w := newContext(http.MethodPut, "/api/v1/shops/"+shop+"/template", []byte(`{`))
	withParams(c, "shop", shop)
	h.UpdateTemplate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	tpl.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
