package invoice

import (
	"regexp"
	"strings"
)

const (
	hsnMetafieldNamespace = "custom"
	hsnMetafieldKey       = "hsn_code"
)

var skuHSNPattern = regexp.MustCompile(`(?i)HSN(\d{4,8})`)

// ResolveHSN finds the HSN code of a line item. Sources are tried in order:
// the custom.hsn_code product metafield, the first property whose name
// contains "hsn", then an "HSN<digits>" marker in the SKU. No match yields "".
func ResolveHSN(item LineItem) string {
	for _, m := range item.Metafields {
		if m.Namespace == hsnMetafieldNamespace && m.Key == hsnMetafieldKey {
			if m.Value != "" {
				return m.Value
			}
			break
		}
	}

	for _, p := range item.Properties {
		if p.Name != "" && strings.Contains(strings.ToLower(p.Name), "hsn") {
			if p.Value != "" {
				return p.Value
			}
			break
		}
	}

	if item.SKU != "" {
		if m := skuHSNPattern.FindStringSubmatch(item.SKU); m != nil {
			return m[1]
		}
	}
	return ""
}
