package templateconfig

import (
	"regexp"
	"strconv"

	"invoicer/internal/domain"
)

// Defaults applied by Format.
const (
	DefaultFontFamily     = "Helvetica"
	DefaultHeadingFont    = "Helvetica-Bold"
	DefaultTitleSize      = 28
	DefaultHeadingSize    = 16
	DefaultBodySize       = 11
	DefaultTableSize      = 8
	DefaultHeaderBG       = "#333333"
	DefaultHeaderText     = "#ffffff"
	DefaultPrimaryColor   = "#1a1a1a"
	DefaultSecondaryColor = "#666666"
	DefaultAccentColor    = "#0066cc"
	DefaultBackground     = "#ffffff"
	DefaultBorderColor    = "#dddddd"
	DefaultCompanyName    = "Your Company Name"
	DefaultLegalName      = "Legal Entity Name"
	DefaultAddressLine1   = "Address Line 1"
	DefaultAddressLine2   = "Address Line 2"
	DefaultGSTIN          = "GSTIN Number"
	DefaultLogo           = "logo.jpg"
)

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Format fills every missing field of raw with its default. Flat styling keys
// take precedence over the nested fonts and colors blocks.
func Format(raw domain.RawTemplateConfig) domain.TemplateConfig {
	s, c := raw.Styling, raw.Company

	source := raw.Source
	if source == "" {
		source = domain.TemplateSourceEnvironment
	}

	return domain.TemplateConfig{
		Template: or(raw.TemplateID, domain.DefaultTemplateID),
		Fonts: domain.FontConfig{
			Family:      or(s.FontFamily, s.Fonts.Family, DefaultFontFamily),
			Heading:     or(s.Fonts.Heading, DefaultHeadingFont),
			Body:        or(s.Fonts.Body, DefaultFontFamily),
			Emphasis:    or(s.Fonts.Emphasis, DefaultHeadingFont),
			TitleSize:   orNum(s.TitleFontSize, s.Fonts.TitleSize, DefaultTitleSize),
			HeadingSize: orNum(s.HeadingFontSize, s.Fonts.HeadingSize, DefaultHeadingSize),
			BodySize:    orNum(s.BodyFontSize, s.Fonts.BodySize, DefaultBodySize),
			TableSize:   orNum(s.ItemTableFontSize, s.Fonts.TableSize, DefaultTableSize),
		},
		Styling: domain.StylingConfig{
			HeaderBackgroundColor: or(s.HeaderBackgroundColor, DefaultHeaderBG),
			HeaderTextColor:       or(s.HeaderTextColor, DefaultHeaderText),
		},
		Colors: domain.ColorConfig{
			Primary:    or(s.PrimaryColor, s.Colors.Primary, DefaultPrimaryColor),
			Secondary:  or(s.Colors.Secondary, DefaultSecondaryColor),
			Accent:     or(s.Colors.Accent, s.PrimaryColor, DefaultAccentColor),
			Background: or(s.Colors.Background, DefaultBackground),
			Border:     or(s.Colors.Border, DefaultBorderColor),
		},
		Company: domain.CompanyConfig{
			Name:      or(c.Name, c.CompanyName, DefaultCompanyName),
			LegalName: or(c.LegalName, c.Name, DefaultLegalName),
			Address: domain.CompanyAddress{
				Line1:   or(c.AddressLine1, c.Address, DefaultAddressLine1),
				Line2:   or(c.AddressLine2, DefaultAddressLine2),
				City:    c.City,
				State:   c.State,
				Pincode: c.Pincode,
			},
			GSTIN:               or(c.GSTIN, DefaultGSTIN),
			PAN:                 c.PAN,
			Phone:               c.Phone,
			Email:               or(c.Email, c.SupportEmail),
			Logo:                or(c.Logo, c.LogoFilename, DefaultLogo),
			Signature:           or(c.Signature, c.SignatureFilename),
			IncludeSignature:    c.IncludeSignature == nil || *c.IncludeSignature,
			SendEmailToCustomer: c.SendEmailToCustomer,
			OwnerEmail:          c.OwnerEmail,
		},
		Source: source,
	}
}

// ParseHexColor parses #rgb or #rrggbb.
func ParseHexColor(s string) (r, g, b int, ok bool) {
	if !hexColorRe.MatchString(s) {
		return 0, 0, 0, false
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func or(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orNum(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
