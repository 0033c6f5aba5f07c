package validator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// Finding is one Result tagged with the rule that produced it.
type Finding struct {
	RuleKey       string               `json:"rule_key"`
	RuleName      string               `json:"rule_name"`
	Severity      domain.AuditSeverity `json:"severity"`
	Passed        bool                 `json:"passed"`
	FieldPath     string               `json:"field_path"`
	ExpectedValue string               `json:"expected_value"`
	ActualValue   string               `json:"actual_value"`
	Message       string               `json:"message"`
}

// Report is the outcome of auditing one document.
type Report struct {
	Findings  []Finding `json:"findings"`
	AuditedAt time.Time `json:"audited_at"`
}

// Failed returns the findings that did not pass.
func (r *Report) Failed() []Finding {
	var out []Finding
	for i := range r.Findings {
		if !r.Findings[i].Passed {
			out = append(out, r.Findings[i])
		}
	}
	return out
}

// Errors counts failed findings of error severity.
func (r *Report) Errors() int {
	return r.countFailed(domain.AuditSeverityError)
}

// Warnings counts failed findings of warning severity.
func (r *Report) Warnings() int {
	return r.countFailed(domain.AuditSeverityWarning)
}

func (r *Report) countFailed(sev domain.AuditSeverity) int {
	n := 0
	for i := range r.Findings {
		if !r.Findings[i].Passed && r.Findings[i].Severity == sev {
			n++
		}
	}
	return n
}

// Engine runs the registered rules over an invoice document. Audit findings
// never block invoice generation; callers decide what to do with them.
type Engine struct {
	registry *Registry
	log      *zap.Logger
}

// NewEngine creates a new audit engine.
func NewEngine(registry *Registry, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{registry: registry, log: log.Named("audit")}
}

// Audit runs every rule against doc.
func (e *Engine) Audit(ctx context.Context, doc *invoice.Document) Report {
	report := Report{AuditedAt: time.Now().UTC()}
	if doc == nil {
		return report
	}

	for _, v := range e.registry.All() {
		if ctx.Err() != nil {
			break
		}
		for _, res := range v.Validate(ctx, doc) {
			report.Findings = append(report.Findings, Finding{
				RuleKey:       v.RuleKey(),
				RuleName:      v.RuleName(),
				Severity:      v.Severity(),
				Passed:        res.Passed,
				FieldPath:     res.FieldPath,
				ExpectedValue: res.ExpectedValue,
				ActualValue:   res.ActualValue,
				Message:       res.Message,
			})
			if !res.Passed {
				e.log.Warn("audit check failed",
					zap.String("order", doc.Order.Name),
					zap.String("rule", v.RuleKey()),
					zap.String("severity", string(v.Severity())),
					zap.String("message", res.Message),
				)
			}
		}
	}

	e.log.Debug("audit complete",
		zap.String("order", doc.Order.Name),
		zap.Int("findings", len(report.Findings)),
		zap.Int("errors", report.Errors()),
		zap.Int("warnings", report.Warnings()),
	)
	return report
}
