// Package shopify decodes Shopify order webhooks into the invoice engine's input.
package shopify

import (
	"bytes"
	"encoding/json"

	"invoicer/internal/invoice"
)

// Order is the subset of the Shopify order webhook payload the invoice uses.
type Order struct {
	ID        Text      `json:"id"`
	Name      Text      `json:"name"`
	CreatedAt Text      `json:"created_at"`
	Currency  Text      `json:"currency"`
	Email     Text      `json:"email"`
	Phone     Text      `json:"phone"`
	Note      Text      `json:"note"`
	Customer  *Customer `json:"customer"`

	BillingAddress  *Address `json:"billing_address"`
	ShippingAddress *Address `json:"shipping_address"`

	// LineItems is decoded during Normalize so that a malformed collection
	// does not fail the whole payload.
	LineItems json.RawMessage `json:"line_items"`

	CurrentTotalDiscounts Amount   `json:"current_total_discounts"`
	TotalShippingPriceSet PriceSet `json:"total_shipping_price_set"`
	CurrentTotalPrice     Amount   `json:"current_total_price"`
	TotalPrice            Amount   `json:"total_price"`
	CurrentTotalTax       Amount   `json:"current_total_tax"`
	TotalTax              Amount   `json:"total_tax"`

	ShopDomain      Text `json:"shop_domain"`
	MyshopifyDomain Text `json:"myshopify_domain"`
	Domain          Text `json:"domain"`
}

// Customer is the order's customer record.
type Customer struct {
	FirstName Text `json:"first_name"`
	LastName  Text `json:"last_name"`
	Email     Text `json:"email"`
	Phone     Text `json:"phone"`
	Company   Text `json:"company"`
}

// Address is a Shopify mailing address.
type Address struct {
	Name     Text `json:"name"`
	Company  Text `json:"company"`
	Address1 Text `json:"address1"`
	Address2 Text `json:"address2"`
	City     Text `json:"city"`
	Province Text `json:"province"`
	Zip      Text `json:"zip"`
	Phone    Text `json:"phone"`
}

// PriceSet is Shopify's dual-currency amount.
type PriceSet struct {
	ShopMoney ShopMoney `json:"shop_money"`
}

// ShopMoney is the shop-currency side of a PriceSet.
type ShopMoney struct {
	Amount Amount `json:"amount"`
}

// LineItem is one entry of line_items.
type LineItem struct {
	Title          Text       `json:"title"`
	Name           Text       `json:"name"`
	SKU            Text       `json:"sku"`
	VariantTitle   Text       `json:"variant_title"`
	Price          Amount     `json:"price"`
	Quantity       Count      `json:"quantity"`
	TotalDiscount  Amount     `json:"total_discount"`
	CompareAtPrice Amount     `json:"compare_at_price"`
	Properties     Properties `json:"properties"`
	Product        *Product   `json:"product"`
}

// Product carries the metafields of a line item's product.
type Product struct {
	Metafields Metafields `json:"metafields"`
}

// Property is a line-item property.
type Property struct {
	Name  Text `json:"name"`
	Value Text `json:"value"`
}

// Metafield is a product metafield.
type Metafield struct {
	Namespace Text `json:"namespace"`
	Key       Text `json:"key"`
	Value     Text `json:"value"`
}

// DecodeOrder unmarshals an order payload.
func DecodeOrder(b []byte) (*Order, error) {
	var o Order
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Normalize applies every default in one pass and returns the engine input.
// When line_items is absent or not an array the result has nil LineItems,
// which invoice.Transform reports as an upstream parse failure.
func (o *Order) Normalize() invoice.Order {
	out := invoice.Order{
		ID:             o.ID.String(),
		Name:           o.Name.String(),
		CreatedAt:      o.CreatedAt.String(),
		Currency:       o.Currency.String(),
		Email:          o.Email.String(),
		Phone:          o.Phone.String(),
		Note:           o.Note.String(),
		Billing:        o.BillingAddress.normalize(),
		Shipping:       o.ShippingAddress.normalize(),
		LineItems:      o.normalizeLineItems(),
		TotalDiscount:  o.CurrentTotalDiscounts.Float(),
		ShippingCharge: o.TotalShippingPriceSet.ShopMoney.Amount.Float(),
		GrandTotal:     firstValid(o.CurrentTotalPrice, o.TotalPrice),
		UpstreamTax:    firstValid(o.CurrentTotalTax, o.TotalTax),
	}
	if c := o.Customer; c != nil {
		out.Customer = invoice.OrderCustomer{
			FirstName: c.FirstName.String(),
			LastName:  c.LastName.String(),
			Email:     c.Email.String(),
			Phone:     c.Phone.String(),
			Company:   c.Company.String(),
		}
	}
	return out
}

// BodyShopDomain returns the first shop domain carried in the order body.
func (o *Order) BodyShopDomain() string {
	for _, d := range []Text{o.ShopDomain, o.MyshopifyDomain, o.Domain} {
		if d != "" {
			return d.String()
		}
	}
	return ""
}

// normalizeLineItems decodes line_items element by element so that one
// malformed entry only defaults that entry.
func (o *Order) normalizeLineItems() []invoice.LineItem {
	raw := bytes.TrimSpace(o.LineItems)
	if len(raw) == 0 || raw[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	out := make([]invoice.LineItem, 0, len(elems))
	for _, elem := range elems {
		var item LineItem
		decodeObject(elem, &item)
		out = append(out, item.normalize())
	}
	return out
}

func (li *LineItem) normalize() invoice.LineItem {
	out := invoice.LineItem{
		Title:          li.Title.String(),
		Name:           li.Name.String(),
		SKU:            li.SKU.String(),
		VariantTitle:   li.VariantTitle.String(),
		Price:          li.Price.Float(),
		Quantity:       int(li.Quantity),
		Discount:       li.TotalDiscount.Float(),
		CompareAtPrice: li.CompareAtPrice.Float(),
	}
	for _, p := range li.Properties {
		out.Properties = append(out.Properties, invoice.Property{Name: p.Name.String(), Value: p.Value.String()})
	}
	if li.Product != nil {
		for _, m := range li.Product.Metafields {
			out.Metafields = append(out.Metafields, invoice.Metafield{
				Namespace: m.Namespace.String(),
				Key:       m.Key.String(),
				Value:     m.Value.String(),
			})
		}
	}
	return out
}

func (a *Address) normalize() invoice.Address {
	if a == nil {
		return invoice.Address{}
	}
	return invoice.Address{
		Name:     a.Name.String(),
		Company:  a.Company.String(),
		Address1: a.Address1.String(),
		Address2: a.Address2.String(),
		City:     a.City.String(),
		Province: a.Province.String(),
		Zip:      a.Zip.String(),
		Phone:    a.Phone.String(),
	}
}

func firstValid(amounts ...Amount) float64 {
	for _, a := range amounts {
		if a.Valid {
			return a.Value
		}
	}
	return 0
}
