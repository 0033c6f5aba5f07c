package shopify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/invoice"
	"invoicer/internal/shopify"
)

const lenientOrder = `{
  "id": 820982911946154508,
  "name": "#PG1229",
  "created_at": "2025-12-29T10:15:00+05:30",
  "email": "asha@example.com",
  "customer": {"first_name": "Asha", "last_name": "Verma", "phone": 9876543210},
  "shipping_address": {"name": "Asha Verma", "address1": "12 MG Road", "city": "Pune", "province": "Maharashtra", "zip": 411001},
  "line_items": [
    {
      "title": "Linen Kurta",
      "price": "2590.00",
      "quantity": "2",
      "total_discount": 100,
      "compare_at_price": null,
      "sku": "HSN6211-KRT",
      "variant_title": "M",
      "properties": {"not": "an array"},
      "product": {"metafields": [{"namespace": "custom", "key": "hsn_code", "value": 6211}]}
    },
    {"title": "Scarf", "price": "abc", "quantity": 1.9, "properties": [{"name": "HSN", "value": "6214"}]}
  ],
  "current_total_discounts": "abc",
  "total_shipping_price_set": {"shop_money": {"amount": "49.00"}},
  "total_price": "5080.00",
  "total_tax": 241.9
}`

func TestDecodeOrder_Lenient(t *testing.T) {
	o, err := shopify.DecodeOrder([]byte(lenientOrder))
	require.NoError(t, err)

	n := o.Normalize()
	assert.Equal(t, "820982911946154508", n.ID)
	assert.Equal(t, "#PG1229", n.Name)
	assert.Equal(t, "9876543210", n.Customer.Phone)
	assert.Equal(t, "Maharashtra", n.Shipping.Province)
	assert.Equal(t, "411001", n.Shipping.Zip)
	assert.Equal(t, 0.0, n.TotalDiscount)
	assert.Equal(t, 49.0, n.ShippingCharge)
	assert.Equal(t, 5080.0, n.GrandTotal)
	assert.Equal(t, 241.9, n.UpstreamTax)

	require.Len(t, n.LineItems, 2)
	first := n.LineItems[0]
	assert.Equal(t, 2590.0, first.Price)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 100.0, first.Discount)
	assert.Equal(t, 0.0, first.CompareAtPrice)
	assert.Empty(t, first.Properties)
	require.Len(t, first.Metafields, 1)
	assert.Equal(t, "6211", first.Metafields[0].Value)

	second := n.LineItems[1]
	assert.Equal(t, 0.0, second.Price)
	assert.Equal(t, 1, second.Quantity)
	require.Len(t, second.Properties, 1)
	assert.Equal(t, "6214", second.Properties[0].Value)
}

func TestNormalize_LineItemsShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantNil bool
		wantLen int
	}{
		{"absent", `{"name":"#1"}`, true, 0},
		{"null", `{"name":"#1","line_items":null}`, true, 0},
		{"object", `{"name":"#1","line_items":{"title":"x"}}`, true, 0},
		{"string", `{"name":"#1","line_items":"oops"}`, true, 0},
		{"array of scalars", `{"name":"#1","line_items":[1,null]}`, false, 2},
		{"empty array", `{"name":"#1","line_items":[]}`, false, 0},
		{"one item", `{"name":"#1","line_items":[{"title":"x","price":"10","quantity":1}]}`, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := shopify.DecodeOrder([]byte(tt.payload))
			require.NoError(t, err)
			items := o.Normalize().LineItems
			if tt.wantNil {
				assert.Nil(t, items)
				return
			}
			assert.NotNil(t, items)
			assert.Len(t, items, tt.wantLen)
		})
	}
}

func TestDecodeOrder_MalformedSubObjects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, n invoice.Order)
	}{
		{
			name:    "customer string",
			payload: `{"email":"a@example.com","customer":"guest","line_items":[]}`,
			check: func(t *testing.T, n invoice.Order) {
				assert.Equal(t, invoice.OrderCustomer{}, n.Customer)
				assert.Equal(t, "a@example.com", n.Email)
			},
		},
		{
			name:    "shipping address array",
			payload: `{"shipping_address":[],"billing_address":{"province":"Goa"},"line_items":[]}`,
			check: func(t *testing.T, n invoice.Order) {
				assert.Equal(t, invoice.Address{}, n.Shipping)
				assert.Equal(t, "Goa", n.Billing.Province)
			},
		},
		{
			name:    "billing address number",
			payload: `{"billing_address":42,"line_items":[]}`,
			check: func(t *testing.T, n invoice.Order) {
				assert.Equal(t, invoice.Address{}, n.Billing)
			},
		},
		{
			name:    "price set string",
			payload: `{"total_shipping_price_set":"49.00","line_items":[]}`,
			check: func(t *testing.T, n invoice.Order) {
				assert.Equal(t, 0.0, n.ShippingCharge)
			},
		},
		{
			name:    "shop money array",
			payload: `{"total_shipping_price_set":{"shop_money":[49]},"line_items":[]}`,
			check: func(t *testing.T, n invoice.Order) {
				assert.Equal(t, 0.0, n.ShippingCharge)
			},
		},
		{
			name: "product string in one line item",
			payload: `{"line_items":[
				{"title":"Kurta","price":"2590","quantity":1,"product":"x"},
				{"title":"Scarf","price":"500","quantity":2,"product":{"metafields":[{"namespace":"custom","key":"hsn_code","value":"6214"}]}}
			]}`,
			check: func(t *testing.T, n invoice.Order) {
				require.Len(t, n.LineItems, 2)
				assert.Equal(t, "Kurta", n.LineItems[0].Title)
				assert.Empty(t, n.LineItems[0].Metafields)
				assert.Equal(t, 2, n.LineItems[1].Quantity)
				require.Len(t, n.LineItems[1].Metafields, 1)
				assert.Equal(t, "6214", n.LineItems[1].Metafields[0].Value)
			},
		},
		{
			name:    "scalar property entry",
			payload: `{"line_items":[{"title":"Tee","properties":["gift",{"name":"HSN","value":"6109"}]}]}`,
			check: func(t *testing.T, n invoice.Order) {
				require.Len(t, n.LineItems, 1)
				require.Len(t, n.LineItems[0].Properties, 2)
				assert.Equal(t, "6109", n.LineItems[0].Properties[1].Value)
			},
		},
		{
			name:    "metafields not an array",
			payload: `{"line_items":[{"title":"Tee","product":{"metafields":"none"}}]}`,
			check: func(t *testing.T, n invoice.Order) {
				require.Len(t, n.LineItems, 1)
				assert.Empty(t, n.LineItems[0].Metafields)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := shopify.DecodeOrder([]byte(tt.payload))
			require.NoError(t, err)
			tt.check(t, o.Normalize())
		})
	}
}

func TestNormalize_TotalsFallback(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantTotal float64
		wantTax   float64
	}{
		{"current figures win", `{"current_total_price":"90","total_price":"100","current_total_tax":"4","total_tax":"5"}`, 90, 4},
		{"falls back to original figures", `{"total_price":"100","total_tax":5}`, 100, 5},
		{"empty string counts as absent", `{"current_total_price":"","total_price":"100"}`, 100, 0},
		{"malformed current value is still authoritative", `{"current_total_price":"n/a","total_price":"100"}`, 0, 0},
		{"nothing", `{}`, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := shopify.DecodeOrder([]byte(tt.payload))
			require.NoError(t, err)
			n := o.Normalize()
			assert.Equal(t, tt.wantTotal, n.GrandTotal)
			assert.Equal(t, tt.wantTax, n.UpstreamTax)
		})
	}
}

func TestCount_Unmarshal(t *testing.T) {
	tests := []struct {
		payload string
		want    int
	}{
		{`{"line_items":[{"quantity":3}]}`, 3},
		{`{"line_items":[{"quantity":"4"}]}`, 4},
		{`{"line_items":[{"quantity":2.9}]}`, 2},
		{`{"line_items":[{"quantity":"many"}]}`, 0},
		{`{"line_items":[{"quantity":null}]}`, 0},
		{`{"line_items":[{"quantity":-2}]}`, -2},
		{`{"line_items":[{"quantity":1e12}]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			o, err := shopify.DecodeOrder([]byte(tt.payload))
			require.NoError(t, err)
			items := o.Normalize().LineItems
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0].Quantity)
		})
	}
}

func TestBodyShopDomain(t *testing.T) {
	o, err := shopify.DecodeOrder([]byte(`{"myshopify_domain":"pg.myshopify.com","domain":"pg.in"}`))
	require.NoError(t, err)
	assert.Equal(t, "pg.myshopify.com", o.BodyShopDomain())

	o, err = shopify.DecodeOrder([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, o.BodyShopDomain())
}
