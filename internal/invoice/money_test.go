package invoice_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/invoice"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		name  string
		money invoice.Money
		want  string
	}{
		{"inr prefix", invoice.NewMoney(2590, "INR"), "Rs. 2590.00"},
		{"rounds half up", invoice.NewMoney(123.335, "INR"), "Rs. 123.34"},
		{"other currency uses code", invoice.NewMoney(12.5, "USD"), "USD 12.50"},
		{"credit", invoice.Money{Amount: 400, Currency: "INR", Credit: true}, "-Rs. 400.00"},
		{"zero", invoice.NewMoney(0, "INR"), "Rs. 0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.money.String())
		})
	}
}

func TestMoney_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(invoice.NewMoney(2066.6666666, "INR"))
	require.NoError(t, err)
	assert.JSONEq(t, `"Rs. 2066.67"`, string(b))
}

func TestMoney_Rounded(t *testing.T) {
	assert.Equal(t, 2066.67, invoice.NewMoney(2066.6666666, "INR").Rounded())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2590.00", 2590},
		{" 400 ", 400},
		{"", 0},
		{"abc", 0},
		{"12,50", 0},
		{"-3.5", -3.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, invoice.ParseAmount(tt.in))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "Rs.", invoice.CurrencySymbol("INR"))
	assert.Equal(t, "EUR", invoice.CurrencySymbol("EUR"))
}
