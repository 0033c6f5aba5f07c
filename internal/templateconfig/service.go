// Package templateconfig resolves the branding and styling applied to a
// shop's invoices.
package templateconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"invoicer/internal/config"
	"invoicer/internal/domain"
	"invoicer/internal/port"
)

// UpdateInput is a shop's template configuration change.
type UpdateInput struct {
	TemplateID string            `json:"templateId"`
	Styling    domain.RawStyling `json:"styling"`
	Company    domain.RawCompany `json:"company"`
}

// Service resolves and stores template configurations.
type Service struct {
	repo    port.TemplateConfigRepository
	invoice config.InvoiceConfig
	company config.CompanyConfig
	log     *zap.Logger
}

// NewService creates a Service. repo may be nil, in which case every shop
// resolves to the environment configuration.
func NewService(repo port.TemplateConfigRepository, inv config.InvoiceConfig, company config.CompanyConfig, log *zap.Logger) *Service {
	return &Service{repo: repo, invoice: inv, company: company, log: log.Named("templateconfig")}
}

// Resolve returns the formatted configuration for shop. It never fails;
// lookup errors fall back to the environment configuration.
func (s *Service) Resolve(ctx context.Context, shop string) domain.TemplateConfig {
	return Format(s.Lookup(ctx, shop))
}

// Lookup walks the chain: shop template override, then the template's
// default configuration, then the environment.
func (s *Service) Lookup(ctx context.Context, shop string) domain.RawTemplateConfig {
	if s.repo == nil || shop == "" {
		return s.Environment()
	}
	log := s.log.With(zap.String("shop", shop))

	templateID := domain.DefaultTemplateID
	ownerEmail := ""
	rec, err := s.repo.GetShop(ctx, shop)
	switch {
	case err == nil:
		if rec.TemplateID != "" {
			templateID = rec.TemplateID
		}
		ownerEmail = rec.OwnerEmail
	case errors.Is(err, domain.ErrNotFound):
		log.Debug("shop not registered, using default template", zap.String("template_id", templateID))
	default:
		log.Warn("fetching shop failed, using default template", zap.Error(err))
	}

	st, err := s.repo.GetShopTemplate(ctx, shop, templateID)
	switch {
	case err == nil:
		raw := domain.RawTemplateConfig{
			Source:     domain.TemplateSourceDatabase,
			TemplateID: or(st.TemplateID, templateID),
		}
		decodeBlock(log, "styling", st.Styling, &raw.Styling)
		decodeBlock(log, "company", st.Company, &raw.Company)
		return withOwner(raw, ownerEmail)
	case !errors.Is(err, domain.ErrNotFound):
		log.Error("fetching shop template failed, using environment config", zap.Error(err))
		return s.Environment()
	}

	tmpl, err := s.repo.GetTemplate(ctx, templateID)
	switch {
	case err == nil && len(tmpl.DefaultConfig) > 0:
		var def struct {
			Styling domain.RawStyling `json:"styling"`
			Company domain.RawCompany `json:"company"`
		}
		if err := json.Unmarshal(tmpl.DefaultConfig, &def); err != nil {
			log.Error("template default config is malformed, using environment config",
				zap.String("template_id", templateID), zap.Error(err))
			return s.Environment()
		}
		return withOwner(domain.RawTemplateConfig{
			Source:     domain.TemplateSourceTemplateDefault,
			TemplateID: or(tmpl.TemplateID, templateID),
			Styling:    def.Styling,
			Company:    def.Company,
		}, ownerEmail)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		log.Error("fetching template failed, using environment config", zap.Error(err))
		return s.Environment()
	}

	log.Debug("no template in database, using environment config", zap.String("template_id", templateID))
	return withOwner(s.Environment(), ownerEmail)
}

// Environment builds the configuration from process settings.
func (s *Service) Environment() domain.RawTemplateConfig {
	inv, c := s.invoice, s.company
	return domain.RawTemplateConfig{
		Source:     domain.TemplateSourceEnvironment,
		TemplateID: or(inv.Template, domain.DefaultTemplateID),
		Styling: domain.RawStyling{
			Fonts: domain.RawFonts{
				Heading:  or(inv.FontFamily, DefaultHeadingFont),
				Body:     or(inv.FontFamily, DefaultFontFamily),
				Emphasis: or(inv.FontFamily, DefaultHeadingFont),
			},
			Colors: domain.RawColors{
				Primary:    or(inv.PrimaryColor, DefaultPrimaryColor),
				Secondary:  DefaultSecondaryColor,
				Accent:     or(inv.PrimaryColor, DefaultAccentColor),
				Background: DefaultBackground,
				Border:     DefaultBorderColor,
			},
		},
		Company: domain.RawCompany{
			Name:         or(c.Name, DefaultCompanyName),
			LegalName:    or(c.LegalName, DefaultLegalName),
			Address:      or(c.AddressLine1, DefaultAddressLine1),
			AddressLine2: or(c.AddressLine2, DefaultAddressLine2),
			State:        c.State,
			GSTIN:        or(c.GSTIN, DefaultGSTIN),
			Phone:        c.Phone,
			SupportEmail: c.SupportEmail,
			Logo:         or(c.LogoFilename, DefaultLogo),
			OwnerEmail:   c.OwnerEmail,
		},
	}
}

// Update validates and stores a shop's template configuration.
func (s *Service) Update(ctx context.Context, shop string, in UpdateInput) (*domain.ShopTemplate, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("templateconfig.Update: no repository configured")
	}
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return nil, domain.ErrShopRequired
	}
	if err := validateStyling(in.Styling); err != nil {
		return nil, err
	}

	styling, err := json.Marshal(in.Styling)
	if err != nil {
		return nil, fmt.Errorf("templateconfig.Update: encoding styling: %w", err)
	}
	company, err := json.Marshal(in.Company)
	if err != nil {
		return nil, fmt.Errorf("templateconfig.Update: encoding company: %w", err)
	}

	st := &domain.ShopTemplate{
		Shop:       shop,
		TemplateID: or(strings.TrimSpace(in.TemplateID), domain.DefaultTemplateID),
		Styling:    styling,
		Company:    company,
	}
	if err := s.repo.UpsertShopTemplate(ctx, st); err != nil {
		return nil, fmt.Errorf("templateconfig.Update: %w", err)
	}
	return st, nil
}

func validateStyling(st domain.RawStyling) error {
	colors := map[string]string{
		"primaryColor":          st.PrimaryColor,
		"headerBackgroundColor": st.HeaderBackgroundColor,
		"headerTextColor":       st.HeaderTextColor,
		"colors.primary":        st.Colors.Primary,
		"colors.secondary":      st.Colors.Secondary,
		"colors.accent":         st.Colors.Accent,
		"colors.background":     st.Colors.Background,
		"colors.border":         st.Colors.Border,
	}
	for field, v := range colors {
		if v == "" {
			continue
		}
		if _, _, _, ok := ParseHexColor(v); !ok {
			return fmt.Errorf("%s %q is not a hex color: %w", field, v, domain.ErrInvalidTemplate)
		}
	}

	sizes := []float64{
		st.TitleFontSize, st.HeadingFontSize, st.BodyFontSize, st.ItemTableFontSize,
		st.Fonts.TitleSize, st.Fonts.HeadingSize, st.Fonts.BodySize, st.Fonts.TableSize,
	}
	for _, v := range sizes {
		if v < 0 || v > 72 {
			return fmt.Errorf("font size %.1f out of range: %w", v, domain.ErrInvalidTemplate)
		}
	}
	return nil
}

func decodeBlock(log *zap.Logger, name string, data json.RawMessage, into interface{}) {
	if len(data) == 0 || string(data) == "null" {
		return
	}
	if err := json.Unmarshal(data, into); err != nil {
		log.Warn("ignoring malformed template block", zap.String("block", name), zap.Error(err))
	}
}

func withOwner(raw domain.RawTemplateConfig, ownerEmail string) domain.RawTemplateConfig {
	if raw.Company.OwnerEmail == "" {
		raw.Company.OwnerEmail = ownerEmail
	}
	return raw
}
