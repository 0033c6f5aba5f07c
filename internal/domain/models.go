package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Shop is a merchant store that receives invoices.
type Shop struct {
	Shop       string    `db:"shop" json:"shop"`
	TemplateID string    `db:"template_id" json:"template_id"`
	OwnerEmail string    `db:"owner_email" json:"owner_email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Template is an invoice layout with its default configuration.
type Template struct {
	TemplateID    string          `db:"template_id" json:"template_id"`
	Name          string          `db:"name" json:"name"`
	DefaultConfig json.RawMessage `db:"default_config" json:"default_config"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// ShopTemplate is a shop-specific override of a template's styling and company block.
type ShopTemplate struct {
	Shop       string          `db:"shop" json:"shop"`
	TemplateID string          `db:"template_id" json:"template_id"`
	Styling    json.RawMessage `db:"styling" json:"styling"`
	Company    json.RawMessage `db:"company" json:"company"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderInvoice tracks invoice generation for one order of one shop.
type OrderInvoice struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	Shop               string          `db:"shop" json:"shop"`
	OrderName          string          `db:"order_name" json:"order_name"`
	Status             InvoiceStatus   `db:"status" json:"status"`
	Payload            json.RawMessage `db:"payload" json:"-"`
	S3Key              *string         `db:"s3_key" json:"s3_key"`
	InvoiceGenerated   bool            `db:"invoice_generated" json:"invoice_generated"`
	InvoiceGeneratedAt *time.Time      `db:"invoice_generated_at" json:"invoice_generated_at"`
	Attempts           int             `db:"attempts" json:"attempts"`
	LastError          string          `db:"last_error" json:"last_error,omitempty"`
	AuditWarnings      int             `db:"audit_warnings" json:"audit_warnings"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// RawStyling is the stored styling block. Both flat and nested spellings are
// accepted because older template rows use the flat keys.
type RawStyling struct {
	FontFamily            string    `json:"fontFamily,omitempty"`
	TitleFontSize         float64   `json:"titleFontSize,omitempty"`
	HeadingFontSize       float64   `json:"headingFontSize,omitempty"`
	BodyFontSize          float64   `json:"bodyFontSize,omitempty"`
	ItemTableFontSize     float64   `json:"itemTableFontSize,omitempty"`
	PrimaryColor          string    `json:"primaryColor,omitempty"`
	HeaderBackgroundColor string    `json:"headerBackgroundColor,omitempty"`
	HeaderTextColor       string    `json:"headerTextColor,omitempty"`
	Fonts                 RawFonts  `json:"fonts"`
	Colors                RawColors `json:"colors"`
}

// RawFonts is the nested font block of RawStyling.
type RawFonts struct {
	Family      string  `json:"family,omitempty"`
	Heading     string  `json:"heading,omitempty"`
	Body        string  `json:"body,omitempty"`
	Emphasis    string  `json:"emphasis,omitempty"`
	TitleSize   float64 `json:"titleSize,omitempty"`
	HeadingSize float64 `json:"headingSize,omitempty"`
	BodySize    float64 `json:"bodySize,omitempty"`
	TableSize   float64 `json:"tableSize,omitempty"`
}

// RawColors is the nested color block of RawStyling.
type RawColors struct {
	Primary    string `json:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Background string `json:"background,omitempty"`
	Border     string `json:"border,omitempty"`
}

// RawCompany is the stored company block.
type RawCompany struct {
	Name                string `json:"name,omitempty"`
	CompanyName         string `json:"companyName,omitempty"`
	LegalName           string `json:"legalName,omitempty"`
	Address             string `json:"address,omitempty"`
	AddressLine1        string `json:"addressLine1,omitempty"`
	AddressLine2        string `json:"addressLine2,omitempty"`
	City                string `json:"city,omitempty"`
	State               string `json:"state,omitempty"`
	Pincode             string `json:"pincode,omitempty"`
	GSTIN               string `json:"gstin,omitempty"`
	PAN                 string `json:"pan,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
	SupportEmail        string `json:"supportEmail,omitempty"`
	Logo                string `json:"logo,omitempty"`
	LogoFilename        string `json:"logoFilename,omitempty"`
	Signature           string `json:"signature,omitempty"`
	SignatureFilename   string `json:"signatureFilename,omitempty"`
	IncludeSignature    *bool  `json:"includeSignature,omitempty"`
	SendEmailToCustomer bool   `json:"sendEmailToCustomer,omitempty"`
	OwnerEmail          string `json:"ownerEmail,omitempty"`
}

// RawTemplateConfig is a template configuration as found in one layer of the
// lookup chain, before defaults are applied.
type RawTemplateConfig struct {
	Source     TemplateSource `json:"source"`
	TemplateID string         `json:"templateId"`
	Styling    RawStyling     `json:"styling"`
	Company    RawCompany     `json:"company"`
}

// TemplateConfig is the fully defaulted configuration consumed by the renderer
// and the notifier.
type TemplateConfig struct {
	Template string         `json:"template"`
	Fonts    FontConfig     `json:"fonts"`
	Styling  StylingConfig  `json:"styling"`
	Colors   ColorConfig    `json:"colors"`
	Company  CompanyConfig  `json:"company"`
	Source   TemplateSource `json:"source"`
}

// FontConfig holds font family and point sizes.
type FontConfig struct {
	Family      string  `json:"family"`
	Heading     string  `json:"heading"`
	Body        string  `json:"body"`
	Emphasis    string  `json:"emphasis"`
	TitleSize   float64 `json:"titleSize"`
	HeadingSize float64 `json:"headingSize"`
	BodySize    float64 `json:"bodySize"`
	TableSize   float64 `json:"tableSize"`
}

// StylingConfig holds table header colors.
type StylingConfig struct {
	HeaderBackgroundColor string `json:"headerBackgroundColor"`
	HeaderTextColor       string `json:"headerTextColor"`
}

// ColorConfig holds the palette as hex strings.
type ColorConfig struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

// CompanyAddress is the seller's postal address.
type CompanyAddress struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// CompanyConfig is the seller identity printed on invoices.
type CompanyConfig struct {
	Name                string         `json:"name"`
	LegalName           string         `json:"legalName"`
	Address             CompanyAddress `json:"address"`
	GSTIN               string         `json:"gstin"`
	PAN                 string         `json:"pan"`
	Phone               string         `json:"phone"`
	Email               string         `json:"email"`
	Logo                string         `json:"logo"`
	Signature           string         `json:"signature"`
	IncludeSignature    bool           `json:"includeSignature"`
	SendEmailToCustomer bool           `json:"sendEmailToCustomer"`
	OwnerEmail          string         `json:"ownerEmail"`
}

// Notification is an invoice-ready message for one recipient.
type Notification struct {
	Recipient   string
	Subject     string
	TextBody    string
	HTMLBody    string
	OrderNumber string
	InvoiceURL  string
}

// InvoiceResult is the outcome of a completed invoice pipeline run.
type InvoiceResult struct {
	Message     string `json:"message"`
	FileName    string `json:"fileName"`
	S3URL       string `json:"s3Url"`
	OrderNumber string `json:"orderNumber"`
	PDFSize     string `json:"pdfSize"`
	Notified    bool   `json:"notified"`
}
