package validator

import (
	"math"

	"invoicer/internal/port"
)

// HSNLookup provides in-memory lookups against the HSN master list.
// It is immutable after construction and safe for concurrent access.
type HSNLookup struct {
	byCode map[string][]float64
}

// NewHSNLookup builds an HSNLookup from entries loaded from the database.
func NewHSNLookup(entries []port.HSNEntry) *HSNLookup {
	m := make(map[string][]float64, len(entries))
	for i := range entries {
		e := &entries[i]
		m[e.Code] = append(m[e.Code], e.GSTRate)
	}
	return &HSNLookup{byCode: m}
}

// Len returns the number of distinct codes.
func (h *HSNLookup) Len() int {
	if h == nil {
		return 0
	}
	return len(h.byCode)
}

// Exists reports whether code, or its 6 or 4 digit prefix, is in the master list.
func (h *HSNLookup) Exists(code string) bool {
	return h.Rates(code) != nil
}

// Rates returns the GST rates listed for code, with prefix fallback 8→6→4.
func (h *HSNLookup) Rates(code string) []float64 {
	if h.Len() == 0 || code == "" {
		return nil
	}
	if rates, ok := h.byCode[code]; ok {
		return rates
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if rates, ok := h.byCode[code[:prefixLen]]; ok {
				return rates
			}
		}
	}
	return nil
}

// RateMatches reports whether rate is one of the rates listed for code.
func (h *HSNLookup) RateMatches(code string, rate float64) (matched bool, valid []float64) {
	valid = h.Rates(code)
	for _, r := range valid {
		if math.Abs(r-rate) < 0.01 {
			return true, valid
		}
	}
	return false, valid
}
