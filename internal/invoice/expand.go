package invoice

import (
	"fmt"

	"invoicer/internal/gst"
)

// expandLineItem produces one row per unit of item. Only the first row
// carries the line's allocated discount; each row gets its own slab decision
// and GST split.
func expandLineItem(item LineItem, discount float64, intrastate bool, currency string) []UnitRow {
	if item.Quantity <= 0 {
		return []UnitRow{}
	}

	hsn := ResolveHSN(item)
	name := displayName(item, hsn)
	mrp := item.CompareAtPrice
	if mrp == 0 {
		mrp = item.Price
	}
	description := optionalString(item.VariantTitle, "Variant: ")
	sku := optionalString(item.SKU, "")

	rows := make([]UnitRow, item.Quantity)
	for i := range rows {
		var unitDiscount float64
		if i == 0 && discount > 0 {
			unitDiscount = discount
		}

		slab := ResolveSlab(item.Price, unitDiscount)
		split := gst.Split(slab.Tax, intrastate)

		rows[i] = UnitRow{
			Name:                 name,
			Description:          description,
			SKU:                  sku,
			HSNCode:              hsn,
			Quantity:             1,
			MRP:                  NewMoney(mrp, currency),
			Discount:             NewMoney(unitDiscount, currency),
			SellingPrice:         NewMoney(slab.PreTax, currency),
			Tax:                  NewMoney(slab.Tax, currency),
			SellingPriceAfterTax: NewMoney(slab.PostTax, currency),
			CGST:                 NewMoney(split.CGST, currency),
			SGST:                 NewMoney(split.SGST, currency),
			IGST:                 NewMoney(split.IGST, currency),
			TaxRate:              slab.Slab.Rate,
		}
	}
	return rows
}

func displayName(item LineItem, hsn string) string {
	name := item.Title
	if name == "" {
		name = item.Name
	}
	if hsn != "" {
		return fmt.Sprintf("%s (HSN: %s)", name, hsn)
	}
	return name
}

func optionalString(v, prefix string) *string {
	if v == "" {
		return nil
	}
	s := prefix + v
	return &s
}
