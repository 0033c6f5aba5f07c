package invoice

import (
	"fmt"
	"strings"
	"time"

	"invoicer/internal/domain"
	"invoicer/internal/gst"
)

// DefaultNotes is printed when the order has no note.
const DefaultNotes = "Thank you for your purchase!"

// MaxUnitsPerOrder caps the rows one order may expand into. Quantities are
// attacker-controlled and every unit is materialised as a row.
const MaxUnitsPerOrder = 10000

// dateLayout mirrors the en-IN short date style, e.g. "29 Dec 2025".
const dateLayout = "2 Jan 2006"

// Transform builds the invoice document for order. sellerState is the
// seller's GST jurisdiction; the buyer's is the shipping province, falling
// back to the billing province. The only error is domain.ErrUpstreamParse,
// returned when the order has no line-item collection or more than
// MaxUnitsPerOrder units.
func Transform(order Order, sellerState string) (*Document, error) {
	if order.LineItems == nil {
		return nil, fmt.Errorf("invoice.Transform %q: line items missing: %w", order.Name, domain.ErrUpstreamParse)
	}
	units := 0
	for _, item := range order.LineItems {
		if item.Quantity > 0 {
			units += item.Quantity
		}
		if units > MaxUnitsPerOrder {
			return nil, fmt.Errorf("invoice.Transform %q: more than %d units: %w", order.Name, MaxUnitsPerOrder, domain.ErrUpstreamParse)
		}
	}

	currency := order.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	intrastate := gst.IsIntrastate(sellerState, BuyerState(order))
	pool := newDiscountPool(order.TotalDiscount)

	rows := make([]UnitRow, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		discount := pool.allocate(item.Price, item.Discount)
		rows = append(rows, expandLineItem(item, discount, intrastate, currency)...)
	}

	return &Document{
		Order: OrderInfo{
			Name:  order.Name,
			Date:  FormatOrderDate(order.CreatedAt),
			Notes: firstNonEmpty(order.Note, DefaultNotes),
		},
		Customer:            customerInfo(order),
		ShippingAddress:     shippingInfo(order),
		LineItems:           rows,
		Totals:              aggregate(rows, order, pool, currency),
		Regime:              gst.RegimeFor(intrastate),
		Currency:            currency,
		DiscountDistributed: pool.distributed,
		UpstreamTax:         order.UpstreamTax,
	}, nil
}

// BuyerState returns the jurisdiction used for the buyer side of the regime decision.
func BuyerState(order Order) string {
	return firstNonEmpty(order.Shipping.Province, order.Billing.Province)
}

// FormatOrderDate renders an RFC 3339 timestamp as a short date in the
// timestamp's own offset. Unparseable input yields "".
func FormatOrderDate(createdAt string) string {
	if createdAt == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return ""
	}
	return t.Format(dateLayout)
}

func customerInfo(order Order) CustomerInfo {
	c := order.Customer
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	return CustomerInfo{
		Name:    firstNonEmpty(name, order.Billing.Name),
		Company: optionalString(firstNonEmpty(c.Company, order.Billing.Company), ""),
		Email:   firstNonEmpty(order.Email, c.Email),
		Phone:   optionalString(firstNonEmpty(order.Phone, c.Phone, order.Billing.Phone), ""),
	}
}

func shippingInfo(order Order) ShippingInfo {
	s := order.Shipping
	return ShippingInfo{
		Name:    firstNonEmpty(s.Name, order.Billing.Name),
		Address: strings.TrimSpace(s.Address1 + " " + s.Address2),
		City:    s.City,
		State:   s.Province,
		Zip:     s.Zip,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
