// Package invoice turns a normalized order into a GST invoice document with
// one row per purchased unit.
package invoice

import "invoicer/internal/gst"

// Order is the defaulted input of Transform. Every field already holds its
// documented default; LineItems is nil only when the upstream payload had no
// usable line-item collection.
type Order struct {
	ID        string
	Name      string
	CreatedAt string
	Currency  string
	Email     string
	Phone     string
	Note      string
	Customer  OrderCustomer
	Billing   Address
	Shipping  Address
	LineItems []LineItem

	// TotalDiscount is the order-level discount pool.
	TotalDiscount  float64
	ShippingCharge float64
	// GrandTotal is the authoritative total charged, copied to the invoice as is.
	GrandTotal float64
	// UpstreamTax is the tax figure reported by the store, used for audit only.
	UpstreamTax float64
}

// OrderCustomer is the customer record attached to an order.
type OrderCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
}

// Address is a billing or shipping address.
type Address struct {
	Name     string
	Company  string
	Address1 string
	Address2 string
	City     string
	Province string
	Zip      string
	Phone    string
}

// LineItem is one purchased product line.
type LineItem struct {
	Title        string
	Name         string
	SKU          string
	VariantTitle string
	// Price is the tax-inclusive unit price.
	Price    float64
	Quantity int
	// Discount is the item-level discount for the whole line.
	Discount float64
	// CompareAtPrice is the MRP; zero means none was given.
	CompareAtPrice float64
	Properties     []Property
	Metafields     []Metafield
}

// Property is a free-form name/value pair on a line item.
type Property struct {
	Name  string
	Value string
}

// Metafield is a namespaced product attribute.
type Metafield struct {
	Namespace string
	Key       string
	Value     string
}

// Document is the generated invoice.
type Document struct {
	Order           OrderInfo    `json:"order"`
	Customer        CustomerInfo `json:"customer"`
	ShippingAddress ShippingInfo `json:"shippingAddress"`
	LineItems       []UnitRow    `json:"lineItems"`
	Totals          Totals       `json:"totals"`
	Regime          gst.Regime   `json:"regime"`
	Currency        string       `json:"currency"`

	// DiscountDistributed is true when the order discount was folded into rows.
	DiscountDistributed bool `json:"-"`
	// UpstreamTax is the store's own tax figure, kept for reconciliation.
	UpstreamTax float64 `json:"-"`
}

// OrderInfo is the order metadata section.
type OrderInfo struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	DueDate *string `json:"dueDate"`
	Notes   string  `json:"notes"`
}

// CustomerInfo is the buyer identity section.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Company *string `json:"company"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
}

// ShippingInfo is the delivery address section.
type ShippingInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// UnitRow is one physical unit. Quantity is always 1.
type UnitRow struct {
	Name                 string  `json:"name"`
	Description          *string `json:"description"`
	SKU                  *string `json:"sku"`
	HSNCode              string  `json:"hsnCode"`
	Quantity             int     `json:"quantity"`
	MRP                  Money   `json:"mrp"`
	Discount             Money   `json:"discount"`
	SellingPrice         Money   `json:"sellingPrice"`
	Tax                  Money   `json:"tax"`
	SellingPriceAfterTax Money   `json:"sellingPriceAfterTax"`
	CGST                 Money   `json:"cgst"`
	SGST                 Money   `json:"sgst"`
	IGST                 Money   `json:"igst"`
	TaxRate              float64 `json:"taxRate"`
}

// Totals is the order-level summary.
type Totals struct {
	Subtotal Money  `json:"subtotal"`
	Discount *Money `json:"discount"`
	Shipping Money  `json:"shipping"`
	Tax      Money  `json:"tax"`
	CGST     *Money `json:"cgst"`
	SGST     *Money `json:"sgst"`
	IGST     *Money `json:"igst"`
	Total    Money  `json:"total"`
}
