package domain

// InvoiceStatus represents the lifecycle of an order's invoice.
type InvoiceStatus string

const (
	InvoiceStatusQueued     InvoiceStatus = "queued"
	InvoiceStatusProcessing InvoiceStatus = "processing"
	InvoiceStatusGenerated  InvoiceStatus = "generated"
	InvoiceStatusFailed     InvoiceStatus = "failed"
)

// TemplateSource records which layer of the lookup chain produced a template configuration.
type TemplateSource string

const (
	TemplateSourceDatabase        TemplateSource = "database"
	TemplateSourceTemplateDefault TemplateSource = "template_default"
	TemplateSourceEnvironment     TemplateSource = "environment"
)

// DefaultTemplateID is used when a shop has no template selected.
const DefaultTemplateID = "minimalist"

// NotifyProvider names a notification backend.
type NotifyProvider string

const (
	NotifyProviderNoop     NotifyProvider = "noop"
	NotifyProviderSES      NotifyProvider = "ses"
	NotifyProviderSendGrid NotifyProvider = "sendgrid"
	NotifyProviderResend   NotifyProvider = "resend"
	NotifyProviderSQS      NotifyProvider = "sqs"
)

// AuditSeverity is the severity of an invoice audit rule.
type AuditSeverity string

const (
	AuditSeverityError   AuditSeverity = "error"
	AuditSeverityWarning AuditSeverity = "warning"
)
