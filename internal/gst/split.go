package gst

import "strings"

// Regime is the tax regime of a transaction.
type Regime string

const (
	RegimeIntrastate Regime = "intrastate"
	RegimeInterstate Regime = "interstate"
)

// Breakdown is a tax amount decomposed into its GST components.
type Breakdown struct {
	CGST float64
	SGST float64
	IGST float64
}

// Total returns CGST + SGST + IGST.
func (b Breakdown) Total() float64 {
	return b.CGST + b.SGST + b.IGST
}

// IsIntrastate reports whether seller and buyer fall in the same GST
// jurisdiction. A missing or unknown jurisdiction on either side is treated
// as interstate.
func IsIntrastate(sellerState, buyerState string) bool {
	if strings.TrimSpace(sellerState) == "" || strings.TrimSpace(buyerState) == "" {
		return false
	}
	seller := ResolveStateCode(sellerState)
	return seller != UnknownStateCode && seller == ResolveStateCode(buyerState)
}

// RegimeFor maps the intrastate flag to a Regime.
func RegimeFor(intrastate bool) Regime {
	if intrastate {
		return RegimeIntrastate
	}
	return RegimeInterstate
}

// Split divides tax into CGST and SGST halves for intrastate supply, or
// assigns all of it to IGST otherwise. Amounts are not rounded.
func Split(tax float64, intrastate bool) Breakdown {
	if intrastate {
		half := tax / 2
		return Breakdown{CGST: half, SGST: half}
	}
	return Breakdown{IGST: tax}
}
