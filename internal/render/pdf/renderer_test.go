package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
	"invoicer/internal/render/pdf"
	"invoicer/internal/templateconfig"
	"invoicer/mocks"
)

func sampleDocument(t *testing.T, buyerState string) *invoice.Document {
	t.Helper()
	doc, err := invoice.Transform(invoice.Order{
		Name:      "#PG1229",
		CreatedAt: "2025-12-29T10:15:00+05:30",
		Currency:  "INR",
		Email:     "asha@example.com",
		Note:      "Gift wrap please",
		Customer:  invoice.OrderCustomer{FirstName: "Asha", LastName: "Verma"},
		Shipping:  invoice.Address{Name: "Asha Verma", Address1: "12 MG Road", City: "Pune", Province: buyerState, Zip: "411001"},
		LineItems: []invoice.LineItem{
			{Title: "Linen Kurta with a very long descriptive title that wraps", VariantTitle: "M", Price: 2590, Quantity: 2, SKU: "HSN6211-KRT"},
			{Title: "Silk Scarf", Price: 3000, Quantity: 1},
		},
		TotalDiscount:  400,
		ShippingCharge: 49,
		GrandTotal:     8229,
	}, "Punjab")
	require.NoError(t, err)
	return doc
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRender_Interstate(t *testing.T) {
	assets := new(mocks.MockAssetLoader)
	assets.On("Load", mock.Anything, "logo.jpg").Return(nil, errors.New("not found"))

	r := pdf.NewRenderer(assets, zap.NewNop())
	cfg := templateconfig.Format(domain.RawTemplateConfig{})

	out, err := r.Render(context.Background(), sampleDocument(t, "Maharashtra"), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assets.AssertExpectations(t)
}

func TestRender_IntrastateWithImages(t *testing.T) {
	img := pngBytes(t)
	assets := new(mocks.MockAssetLoader)
	assets.On("Load", mock.Anything, "shops/pg/logo.png").Return(img, nil)
	assets.On("Load", mock.Anything, "sign.png").Return(img, nil)

	r := pdf.NewRenderer(assets, zap.NewNop())
	cfg := templateconfig.Format(domain.RawTemplateConfig{
		Styling: domain.RawStyling{FontFamily: "Times", HeaderBackgroundColor: "not-a-color"},
		Company: domain.RawCompany{
			Name:      "Pind Goods",
			Logo:      "shops/pg/logo.png",
			Signature: "sign.png",
			State:     "Punjab",
			Email:     "help@pind.in",
		},
	})

	out, err := r.Render(context.Background(), sampleDocument(t, "Punjab"), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assets.AssertExpectations(t)
}

func TestRender_UndecodableImageIsSkipped(t *testing.T) {
	assets := new(mocks.MockAssetLoader)
	assets.On("Load", mock.Anything, "logo.jpg").Return([]byte("not an image"), nil)

	r := pdf.NewRenderer(assets, zap.NewNop())
	out, err := r.Render(context.Background(), sampleDocument(t, "Goa"), templateconfig.Format(domain.RawTemplateConfig{}))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRender_ManyRowsPaginate(t *testing.T) {
	doc, err := invoice.Transform(invoice.Order{
		Name:       "#BULK",
		LineItems:  []invoice.LineItem{{Title: "Socks", Price: 299, Quantity: 80}},
		GrandTotal: 23920,
	}, "Punjab")
	require.NoError(t, err)

	r := pdf.NewRenderer(nil, zap.NewNop())
	out, err := r.Render(context.Background(), doc, templateconfig.Format(domain.RawTemplateConfig{}))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRender_Errors(t *testing.T) {
	r := pdf.NewRenderer(nil, zap.NewNop())

	_, err := r.Render(context.Background(), nil, domain.TemplateConfig{})
	assert.ErrorIs(t, err, domain.ErrRenderFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, sampleDocument(t, "Goa"), templateconfig.Format(domain.RawTemplateConfig{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDisclaimer(t *testing.T) {
	assert.Contains(t, pdf.Disclaimer("Punjab"), "subject to Punjab jurisdiction only")
	assert.Contains(t, pdf.Disclaimer(""), "subject to the respective jurisdiction only")
}
