package templateconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicer/internal/domain"
	"invoicer/internal/templateconfig"
)

func TestFormat_Defaults(t *testing.T) {
	cfg := templateconfig.Format(domain.RawTemplateConfig{})

	assert.Equal(t, "minimalist", cfg.Template)
	assert.Equal(t, domain.TemplateSourceEnvironment, cfg.Source)
	assert.Equal(t, domain.FontConfig{
		Family: "Helvetica", Heading: "Helvetica-Bold", Body: "Helvetica", Emphasis: "Helvetica-Bold",
		TitleSize: 28, HeadingSize: 16, BodySize: 11, TableSize: 8,
	}, cfg.Fonts)
	assert.Equal(t, "#333333", cfg.Styling.HeaderBackgroundColor)
	assert.Equal(t, "#ffffff", cfg.Styling.HeaderTextColor)
	assert.Equal(t, domain.ColorConfig{
		Primary: "#1a1a1a", Secondary: "#666666", Accent: "#0066cc", Background: "#ffffff", Border: "#dddddd",
	}, cfg.Colors)
	assert.Equal(t, "Your Company Name", cfg.Company.Name)
	assert.Equal(t, "Legal Entity Name", cfg.Company.LegalName)
	assert.Equal(t, "Address Line 1", cfg.Company.Address.Line1)
	assert.Equal(t, "Address Line 2", cfg.Company.Address.Line2)
	assert.Equal(t, "GSTIN Number", cfg.Company.GSTIN)
	assert.Equal(t, "logo.jpg", cfg.Company.Logo)
	assert.Empty(t, cfg.Company.Signature)
	assert.True(t, cfg.Company.IncludeSignature)
	assert.False(t, cfg.Company.SendEmailToCustomer)
}

func TestFormat_Precedence(t *testing.T) {
	no := false
	cfg := templateconfig.Format(domain.RawTemplateConfig{
		Source:     domain.TemplateSourceDatabase,
		TemplateID: "classic",
		Styling: domain.RawStyling{
			FontFamily:    "Times",
			TitleFontSize: 30,
			PrimaryColor:  "#112233",
			Fonts:         domain.RawFonts{Family: "Courier", TitleSize: 20, BodySize: 10},
			Colors:        domain.RawColors{Primary: "#445566", Border: "#000000"},
		},
		Company: domain.RawCompany{
			CompanyName:       "Pind Goods",
			Address:           "12 Mall Road",
			SupportEmail:      "help@pind.in",
			LogoFilename:      "pind.png",
			SignatureFilename: "sign.png",
			IncludeSignature:  &no,
			State:             "Punjab",
		},
	})

	assert.Equal(t, "classic", cfg.Template)
	assert.Equal(t, domain.TemplateSourceDatabase, cfg.Source)
	assert.Equal(t, "Times", cfg.Fonts.Family)
	assert.Equal(t, 30.0, cfg.Fonts.TitleSize)
	assert.Equal(t, 10.0, cfg.Fonts.BodySize)
	assert.Equal(t, "#112233", cfg.Colors.Primary)
	assert.Equal(t, "#112233", cfg.Colors.Accent)
	assert.Equal(t, "#000000", cfg.Colors.Border)
	assert.Equal(t, "Pind Goods", cfg.Company.Name)
	assert.Equal(t, "Legal Entity Name", cfg.Company.LegalName)
	assert.Equal(t, "12 Mall Road", cfg.Company.Address.Line1)
	assert.Equal(t, "Punjab", cfg.Company.Address.State)
	assert.Equal(t, "help@pind.in", cfg.Company.Email)
	assert.Equal(t, "pind.png", cfg.Company.Logo)
	assert.Equal(t, "sign.png", cfg.Company.Signature)
	assert.False(t, cfg.Company.IncludeSignature)
}

func TestFormat_LegalNameFallsBackToName(t *testing.T) {
	cfg := templateconfig.Format(domain.RawTemplateConfig{Company: domain.RawCompany{Name: "Pind Goods"}})
	assert.Equal(t, "Pind Goods", cfg.Company.LegalName)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
		ok      bool
	}{
		{"#333333", 0x33, 0x33, 0x33, true},
		{"#0066cc", 0x00, 0x66, 0xcc, true},
		{"#FFF", 255, 255, 255, true},
		{"#dc2626", 0xdc, 0x26, 0x26, true},
		{"333333", 0, 0, 0, false},
		{"#12345", 0, 0, 0, false},
		{"#gggggg", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, ok := templateconfig.ParseHexColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, []int{tt.r, tt.g, tt.b}, []int{r, g, b})
		})
	}
}
