package validator

import (
	"context"
	"fmt"
	"math"
	"regexp"

	"github.com/samber/lo"

	"invoicer/internal/domain"
	"invoicer/internal/gst"
	"invoicer/internal/invoice"
)

const (
	// rowTolerance absorbs floating point noise in figures computed here.
	rowTolerance = 0.01
	// upstreamTolerance is the allowed drift against the store's own tax figure.
	upstreamTolerance = 1.00
)

var hsnFormatRe = regexp.MustCompile(`^\d{4,8}$`)

// rule is a Validator backed by a function.
type rule struct {
	key      string
	name     string
	severity domain.AuditSeverity
	validate func(*invoice.Document) []Result
}

func (r *rule) RuleKey() string                { return r.key }
func (r *rule) RuleName() string               { return r.name }
func (r *rule) Severity() domain.AuditSeverity { return r.severity }

func (r *rule) Validate(_ context.Context, d *invoice.Document) []Result {
	return r.validate(d)
}

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func check(passed bool, fieldPath string, expected, actual float64, ruleName string) Result {
	msg := fmt.Sprintf("%s: %s matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s mismatch (expected %s, got %s)", ruleName, fieldPath, fmtf(expected), fmtf(actual))
	}
	return Result{
		Passed: passed, FieldPath: fieldPath,
		ExpectedValue: fmtf(expected), ActualValue: fmtf(actual), Message: msg,
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func perRow(d *invoice.Document, fn func(i int, row *invoice.UnitRow) Result) []Result {
	results := make([]Result, 0, len(d.LineItems))
	for i := range d.LineItems {
		results = append(results, fn(i, &d.LineItems[i]))
	}
	return results
}

// MathRules returns the arithmetic consistency rules.
func MathRules() []Validator {
	return []Validator{
		&rule{
			key: "math.row.gst_split", name: "Math: Row GST Split",
			severity: domain.AuditSeverityError,
			validate: func(d *invoice.Document) []Result {
				return perRow(d, func(i int, row *invoice.UnitRow) Result {
					sum := row.CGST.Amount + row.SGST.Amount + row.IGST.Amount
					return check(within(sum, row.Tax.Amount, rowTolerance),
						fmt.Sprintf("lineItems[%d].tax", i), row.Tax.Amount, sum, "Math: Row GST Split")
				})
			},
		},
		&rule{
			key: "math.row.post_tax", name: "Math: Row Price After Tax",
			severity: domain.AuditSeverityError,
			validate: func(d *invoice.Document) []Result {
				return perRow(d, func(i int, row *invoice.UnitRow) Result {
					expected := row.SellingPrice.Amount + row.Tax.Amount
					return check(within(row.SellingPriceAfterTax.Amount, expected, rowTolerance),
						fmt.Sprintf("lineItems[%d].sellingPriceAfterTax", i), expected, row.SellingPriceAfterTax.Amount,
						"Math: Row Price After Tax")
				})
			},
		},
		&rule{
			key: "math.totals.subtotal", name: "Math: Subtotal",
			severity: domain.AuditSeverityError,
			validate: func(d *invoice.Document) []Result {
				expected := lo.SumBy(d.LineItems, func(r invoice.UnitRow) float64 { return r.SellingPrice.Rounded() })
				return []Result{check(within(d.Totals.Subtotal.Amount, expected, rowTolerance),
					"totals.subtotal", expected, d.Totals.Subtotal.Amount, "Math: Subtotal")}
			},
		},
		&rule{
			key: "math.totals.tax", name: "Math: Total Tax",
			severity: domain.AuditSeverityError,
			validate: func(d *invoice.Document) []Result {
				sum := func(f func(invoice.UnitRow) invoice.Money) float64 {
					return lo.SumBy(d.LineItems, func(r invoice.UnitRow) float64 { return f(r).Amount })
				}
				components := []struct {
					path  string
					total *invoice.Money
					row   func(invoice.UnitRow) invoice.Money
				}{
					{"totals.tax", &d.Totals.Tax, func(r invoice.UnitRow) invoice.Money { return r.Tax }},
					{"totals.cgst", d.Totals.CGST, func(r invoice.UnitRow) invoice.Money { return r.CGST }},
					{"totals.sgst", d.Totals.SGST, func(r invoice.UnitRow) invoice.Money { return r.SGST }},
					{"totals.igst", d.Totals.IGST, func(r invoice.UnitRow) invoice.Money { return r.IGST }},
				}
				results := make([]Result, 0, len(components))
				for _, c := range components {
					var actual float64
					if c.total != nil {
						actual = c.total.Amount
					}
					expected := sum(c.row)
					results = append(results, check(within(actual, expected, rowTolerance), c.path, expected, actual, "Math: Total Tax"))
				}
				return results
			},
		},
	}
}

// RegimeRule checks that every row is split under the document's regime.
func RegimeRule() Validator {
	return &rule{
		key: "logical.single_regime", name: "Logical: Single Tax Regime",
		severity: domain.AuditSeverityError,
		validate: func(d *invoice.Document) []Result {
			return perRow(d, func(i int, row *invoice.UnitRow) Result {
				fp := fmt.Sprintf("lineItems[%d]", i)
				var ok bool
				if d.Regime == gst.RegimeIntrastate {
					ok = row.IGST.Amount == 0 && within(row.CGST.Amount, row.SGST.Amount, rowTolerance)
				} else {
					ok = row.CGST.Amount == 0 && row.SGST.Amount == 0
				}
				res := Result{Passed: ok, FieldPath: fp, ExpectedValue: string(d.Regime)}
				if ok {
					res.ActualValue = string(d.Regime)
					res.Message = fmt.Sprintf("Logical: Single Tax Regime: %s split as %s", fp, d.Regime)
				} else {
					res.ActualValue = fmt.Sprintf("cgst=%s sgst=%s igst=%s", row.CGST.Fixed(), row.SGST.Fixed(), row.IGST.Fixed())
					res.Message = fmt.Sprintf("Logical: Single Tax Regime: %s is not split as %s", fp, d.Regime)
				}
				return res
			})
		},
	}
}

// HSNRules returns the HSN checks. lookup may be nil or empty, in which case
// only the format rule produces results.
func HSNRules(lookup *HSNLookup) []Validator {
	return []Validator{
		&rule{
			key: "format.hsn", name: "Format: HSN Code",
			severity: domain.AuditSeverityWarning,
			validate: func(d *invoice.Document) []Result {
				var results []Result
				for i := range d.LineItems {
					code := d.LineItems[i].HSNCode
					if code == "" {
						continue
					}
					fp := fmt.Sprintf("lineItems[%d].hsnCode", i)
					ok := hsnFormatRe.MatchString(code)
					msg := fmt.Sprintf("Format: HSN Code: %s is valid", fp)
					if !ok {
						msg = fmt.Sprintf("Format: HSN Code: %s %q is not 4 to 8 digits", fp, code)
					}
					results = append(results, Result{
						Passed: ok, FieldPath: fp, ExpectedValue: "4-8 digits", ActualValue: code, Message: msg,
					})
				}
				return results
			},
		},
		&rule{
			key: "hsn.known", name: "HSN: Known Code",
			severity: domain.AuditSeverityWarning,
			validate: func(d *invoice.Document) []Result {
				if lookup.Len() == 0 {
					return nil
				}
				var results []Result
				for i := range d.LineItems {
					row := &d.LineItems[i]
					if row.HSNCode == "" {
						continue
					}
					fp := fmt.Sprintf("lineItems[%d].hsnCode", i)
					matched, valid := lookup.RateMatches(row.HSNCode, row.TaxRate)
					res := Result{Passed: matched, FieldPath: fp, ActualValue: fmt.Sprintf("%s @ %.0f%%", row.HSNCode, row.TaxRate)}
					switch {
					case valid == nil:
						res.ExpectedValue = "listed HSN code"
						res.Message = fmt.Sprintf("HSN: Known Code: %s %s is not in the HSN master list", fp, row.HSNCode)
					case !matched:
						res.ExpectedValue = fmt.Sprintf("%v%%", valid)
						res.Message = fmt.Sprintf("HSN: Known Code: %s rate %.0f%% not listed for %s", fp, row.TaxRate, row.HSNCode)
					default:
						res.ExpectedValue = res.ActualValue
						res.Message = fmt.Sprintf("HSN: Known Code: %s matches the master list", fp)
					}
					results = append(results, res)
				}
				return results
			},
		},
	}
}

// UpstreamTaxRule compares the recomputed tax with the store's tax figure.
// Divergence is expected for some orders and is reported as a warning.
func UpstreamTaxRule() Validator {
	return &rule{
		key: "reconcile.upstream_tax", name: "Reconcile: Upstream Tax",
		severity: domain.AuditSeverityWarning,
		validate: func(d *invoice.Document) []Result {
			if d.UpstreamTax <= 0 {
				return nil
			}
			return []Result{check(within(d.Totals.Tax.Amount, d.UpstreamTax, upstreamTolerance),
				"totals.tax", d.UpstreamTax, d.Totals.Tax.Amount, "Reconcile: Upstream Tax")}
		},
	}
}

// DefaultRegistry registers every built-in rule.
func DefaultRegistry(lookup *HSNLookup) *Registry {
	reg := NewRegistry()
	for _, v := range MathRules() {
		reg.Register(v)
	}
	reg.Register(RegimeRule())
	for _, v := range HSNRules(lookup) {
		reg.Register(v)
	}
	reg.Register(UpstreamTaxRule())
	return reg
}
