package tenant

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/config"
	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/portal"
	tenantpkg "github.com/gatehouse/gatectl/internal/tenant"
)

// TenantCmd represents the tenant command
var TenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Community (tenant) commands",
	Long: `Community commands for gatectl.

A tenant is one gated community. It is chosen by --tenant, the configured
slug, or the first label of the portal host (localhost and IPs use "default").`,
}

// showCmd resolves a tenant
var showCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show a community and its branding",
	Long:  "Resolve a community by slug and display its branding and limits",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

// tenantView is what tenant show prints
type tenantView struct {
	Slug         string              `json:"slug" yaml:"slug"`
	Name         string              `json:"name" yaml:"name"`
	Domain       string              `json:"domain,omitempty" yaml:"domain,omitempty"`
	Active       bool                `json:"is_active" yaml:"is_active"`
	LogoURL      string              `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	PrimaryColor string              `json:"primary_color" yaml:"primary_color"`
	AccentColor  string              `json:"accent_color" yaml:"accent_color"`
	Limits       models.TenantLimits `json:"limits" yaml:"limits"`
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := portal.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	slug := p.TenantSlug
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		slug = tenantpkg.SlugFromHost(host, "")
	}
	if len(args) == 1 {
		slug = args[0]
	}

	t, err := p.Tenants.ResolveBySlug(cmd.Context(), slug)
	if err != nil {
		return fmt.Errorf("failed to resolve community %q: %w", slug, err)
	}

	brand := tenantpkg.BrandingOf(t)
	view := tenantView{
		Slug:         t.Slug,
		Name:         t.Name,
		Domain:       t.Domain,
		Active:       t.IsActive,
		LogoURL:      t.LogoURL,
		PrimaryColor: brand.Primary.Hex(),
		AccentColor:  brand.Accent.Hex(),
		Limits:       t.Limits,
	}

	if !p.Printer.Structured() {
		view.PrimaryColor = p.Printer.Swatch(brand.Primary)
		view.AccentColor = p.Printer.Swatch(brand.Accent)
		p.Printer.Banner(brand, t.Slug)
	}
	if err := p.Printer.Print(view); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := config.SetTenant(t.Slug); err != nil {
			return fmt.Errorf("failed to save default community: %w", err)
		}
		p.Printer.Success("✓ %s is now the default community", t.Slug)
	}
	return nil
}

func init() {
	showCmd.Flags().String("host", "", "derive the slug from a portal host name")
	showCmd.Flags().Bool("save", false, "make this community the configured default")

	TenantCmd.AddCommand(showCmd)
}
