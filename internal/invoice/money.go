package invoice

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when an order carries no currency code.
const DefaultCurrency = "INR"

// CurrencySymbol returns the printable prefix for an ISO currency code.
// INR prints as "Rs." because the standard PDF fonts have no rupee glyph.
func CurrencySymbol(code string) string {
	if code == "INR" {
		return "Rs."
	}
	return code
}

// Money is an unrounded amount tagged with its currency. It is rounded to two
// fraction digits only when formatted.
type Money struct {
	Amount   float64
	Currency string
	// Credit marks a deduction, printed with a leading minus sign.
	Credit bool
}

// NewMoney builds a Money value.
func NewMoney(amount float64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Fixed returns the amount with exactly two fraction digits.
func (m Money) Fixed() string {
	return toDecimal(m.Amount).StringFixed(2)
}

// Rounded returns the amount rounded to two fraction digits.
func (m Money) Rounded() float64 {
	f, _ := toDecimal(m.Amount).Round(2).Float64()
	return f
}

// String formats the amount as "<symbol> <amount>", e.g. "Rs. 2590.00".
func (m Money) String() string {
	s := CurrencySymbol(m.Currency) + " " + m.Fixed()
	if m.Credit {
		return "-" + s
	}
	return s
}

// MarshalJSON encodes Money as its formatted string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// optionalMoney returns nil for a zero amount so that the field serialises as null.
func optionalMoney(amount float64, currency string) *Money {
	if amount <= 0 {
		return nil
	}
	m := NewMoney(amount, currency)
	return &m
}

func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseAmount parses a numeric string leniently: surrounding whitespace is
// ignored and anything unparseable yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
