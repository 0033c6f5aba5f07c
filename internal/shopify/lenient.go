package shopify

import (
	"bytes"
	"encoding/json"
	"math"

	"invoicer/internal/invoice"
)

// Amount is a numeric field that accepts JSON numbers or numeric strings.
// Anything else decodes as zero without failing the surrounding document.
type Amount struct {
	Value float64
	// Valid is false when the field was absent, null or an empty string.
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	*a = Amount{}
	text, ok := scalarText(b)
	if !ok || text == "" {
		return nil
	}
	a.Valid = true
	a.Value = invoice.ParseAmount(text)
	return nil
}

// Float returns the value, zero when absent or malformed.
func (a Amount) Float() float64 {
	return a.Value
}

// Count is a lenient integer quantity. Fractions are truncated.
type Count int

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(b []byte) error {
	*c = 0
	text, ok := scalarText(b)
	if !ok {
		return nil
	}
	f := invoice.ParseAmount(text)
	if f > math.MaxInt32 {
		f = 0
	}
	*c = Count(math.Trunc(f))
	return nil
}

// Text is a string field that also accepts numbers and booleans, which
// Shopify uses interchangeably for ids and metafield values.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	text, _ := scalarText(b)
	*t = Text(text)
	return nil
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

// scalarText returns the textual form of a JSON scalar. Objects, arrays and
// null report ok=false.
func scalarText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	default:
		return string(b), true
	}
}

// Properties tolerates a non-array value by decoding it as empty.
type Properties []Property

// UnmarshalJSON implements json.Unmarshaler.
func (p *Properties) UnmarshalJSON(b []byte) error {
	*p = nil
	var items []Property
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	*p = items
	return nil
}

// Metafields tolerates a non-array value by decoding it as empty.
type Metafields []Metafield

// UnmarshalJSON implements json.Unmarshaler.
func (m *Metafields) UnmarshalJSON(b []byte) error {
	*m = nil
	var items []Metafield
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	*m = items
	return nil
}

// decodeObject decodes b into v when b is a JSON object and leaves v zero
// otherwise. Leaf fields are lenient, so a partial decode is kept.
func decodeObject(b []byte, v interface{}) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return
	}
	_ = json.Unmarshal(b, v)
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (c *Customer) UnmarshalJSON(b []byte) error {
	type plain Customer
	var p plain
	decodeObject(b, &p)
	*c = Customer(p)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (a *Address) UnmarshalJSON(b []byte) error {
	type plain Address
	var p plain
	decodeObject(b, &p)
	*a = Address(p)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var v plain
	decodeObject(b, &v)
	*p = Product(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (ps *PriceSet) UnmarshalJSON(b []byte) error {
	type plain PriceSet
	var v plain
	decodeObject(b, &v)
	*ps = PriceSet(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (m *ShopMoney) UnmarshalJSON(b []byte) error {
	type plain ShopMoney
	var v plain
	decodeObject(b, &v)
	*m = ShopMoney(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (p *Property) UnmarshalJSON(b []byte) error {
	type plain Property
	var v plain
	decodeObject(b, &v)
	*p = Property(v)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. A non-object decodes as empty.
func (m *Metafield) UnmarshalJSON(b []byte) error {
	type plain Metafield
	var v plain
	decodeObject(b, &v)
	*m = Metafield(v)
	return nil
}
