// Package validator audits generated invoice documents against their own
// arithmetic and against reference data.
package validator

import (
	"context"

	"invoicer/internal/domain"
	"invoicer/internal/invoice"
)

// Result is the outcome of one check of a rule.
type Result struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Validator is a single audit rule.
type Validator interface {
	Validate(ctx context.Context, doc *invoice.Document) []Result
	RuleKey() string
	RuleName() string
	Severity() domain.AuditSeverity
}
