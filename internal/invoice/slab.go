package invoice

// Slab is a GST rate expressed both as a percentage and as the divisor that
// extracts the pre-tax base from a tax-inclusive price.
type Slab struct {
	Rate    float64
	Divisor float64
}

var (
	LowerSlab  = Slab{Rate: 5, Divisor: 1.05}
	HigherSlab = Slab{Rate: 18, Divisor: 1.18}
)

// HigherSlabThreshold is the post-discount pre-tax unit price at or above
// which the higher slab applies.
const HigherSlabThreshold = 2500.0

// SlabResult holds the per-unit figures once the slab is fixed.
type SlabResult struct {
	Slab Slab
	// Base is the pre-tax, pre-discount unit price.
	Base float64
	// Tax is priceWithTax minus Base.
	Tax float64
	// PreTax is Base minus the unit's discount.
	PreTax float64
	// PostTax is PreTax plus Tax.
	PostTax float64
}

// ResolveSlab picks the slab for one unit. The decision is made on the
// discounted base computed at the lower slab; once the higher slab is chosen
// the base is recomputed from the original tax-inclusive price.
func ResolveSlab(priceWithTax, discount float64) SlabResult {
	slab := LowerSlab
	base := priceWithTax / slab.Divisor
	if base-discount >= HigherSlabThreshold {
		slab = HigherSlab
		base = priceWithTax / slab.Divisor
	}

	tax := priceWithTax - base
	preTax := base - discount
	return SlabResult{
		Slab:    slab,
		Base:    base,
		Tax:     tax,
		PreTax:  preTax,
		PostTax: preTax + tax,
	}
}
