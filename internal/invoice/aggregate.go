package invoice

import (
	"github.com/samber/lo"
)

// aggregate sums the rows into order totals. The discount line appears only
// when the order discount was not already folded into rows, and the grand
// total is taken from the order rather than recomputed.
func aggregate(rows []UnitRow, order Order, pool *discountPool, currency string) Totals {
	subtotal := lo.SumBy(rows, func(r UnitRow) float64 { return r.SellingPrice.Rounded() })
	tax := lo.SumBy(rows, func(r UnitRow) float64 { return r.Tax.Amount })
	cgst := lo.SumBy(rows, func(r UnitRow) float64 { return r.CGST.Amount })
	sgst := lo.SumBy(rows, func(r UnitRow) float64 { return r.SGST.Amount })
	igst := lo.SumBy(rows, func(r UnitRow) float64 { return r.IGST.Amount })

	totals := Totals{
		Subtotal: NewMoney(subtotal, currency),
		Shipping: NewMoney(order.ShippingCharge, currency),
		Tax:      NewMoney(tax, currency),
		CGST:     optionalMoney(cgst, currency),
		SGST:     optionalMoney(sgst, currency),
		IGST:     optionalMoney(igst, currency),
		Total:    NewMoney(order.GrandTotal, currency),
	}
	if !pool.distributed && pool.total > 0 {
		totals.Discount = &Money{Amount: pool.total, Currency: currency, Credit: true}
	}
	return totals
}
