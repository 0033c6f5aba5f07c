package invoice

import "math"

// discountPool distributes one order-level discount across line items in
// iteration order. It lives for a single Transform call.
type discountPool struct {
	total     float64
	remaining float64
	// distributed is set once any amount has been charged against the pool.
	distributed bool
}

func newDiscountPool(total float64) *discountPool {
	return &discountPool{total: total, remaining: total}
}

// allocate returns the discount for one line item. When the item's
// approximate pre-tax price exceeds the whole order discount, the pool is the
// source of truth; otherwise the item's own discount applies. Any positive
// amount taken while an order discount exists is charged against the pool.
func (p *discountPool) allocate(priceWithTax, itemDiscount float64) float64 {
	amount := itemDiscount
	approxBase := priceWithTax / LowerSlab.Divisor
	if p.total > 0 && approxBase > p.total {
		amount = math.Min(p.total, math.Max(p.remaining, 0))
	}

	if amount > 0 && p.total > 0 {
		p.remaining -= amount
		p.distributed = true
	}
	return amount
}
