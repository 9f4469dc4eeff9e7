package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/api"
	"github.com/gatehouse/gatectl/internal/guard"
	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/tenant"
	"github.com/gatehouse/gatectl/internal/utils"
)

// Restore resolves the session from the stored token. A rejected token
// leaves the session anonymous and is not an error here; an unreachable
// backend is.
func (p *Portal) Restore(ctx context.Context) error {
	err := p.Session.Restore(ctx)
	if err == nil {
		return nil
	}
	if utils.IsKind(err, utils.KindTransport) || utils.IsKind(err, utils.KindTimeout) {
		return fmt.Errorf("could not reach the portal: %w", err)
	}
	p.Printer.Debugf("stored session rejected: %v", err)
	return nil
}

// RequirePrincipal restores the session and returns the signed-in principal
func (p *Portal) RequirePrincipal(ctx context.Context) (*models.Principal, error) {
	if err := p.Restore(ctx); err != nil {
		return nil, err
	}
	principal := p.Session.Principal()
	if principal == nil {
		return nil, fmt.Errorf("%w: run 'gatectl auth login'", api.ErrNotAuthenticated)
	}
	return principal, nil
}

// Shell guards every command under cmd for the given roles
func Shell(cmd *cobra.Command, allowed ...models.Role) {
	ShellAt(cmd, "", allowed...)
}

// ShellAt is Shell with its own login route for signed-out sessions
func ShellAt(cmd *cobra.Command, login string, allowed ...models.Role) {
	guard.Wrap(cmd, func(c *cobra.Command) (*guard.Guard, error) {
		p, err := FromContext(c.Context())
		if err != nil {
			return nil, err
		}
		if err := p.Restore(c.Context()); err != nil {
			return nil, err
		}
		g := p.Guard(allowed...)
		g.Login = login
		return g, nil
	})
}

// Describe turns guard outcomes into user-facing errors
func Describe(err error) error {
	switch {
	case errors.Is(err, guard.ErrRedirected):
		return errors.New("this dashboard is not available for the current session")
	case errors.Is(err, guard.ErrNotResolved):
		return errors.New("session is still being resolved, try again")
	default:
		return err
	}
}

// dashboardView is the landing view of a dashboard shell
type dashboardView struct {
	Dashboard string      `json:"dashboard" yaml:"dashboard"`
	Community string      `json:"community" yaml:"community"`
	Name      string      `json:"name" yaml:"name"`
	Email     string      `json:"email" yaml:"email"`
	Role      models.Role `json:"role" yaml:"role"`
	MFA       bool        `json:"mfa_enabled" yaml:"mfa_enabled"`
}

// Welcome prints the landing view of a dashboard shell. The community is
// resolved for branding; failing that is not fatal.
func (p *Portal) Welcome(ctx context.Context, dashboard string) error {
	principal := p.Session.Principal()
	if principal == nil {
		return api.ErrNotAuthenticated
	}

	community := p.TenantSlug
	if t, err := p.Tenants.ResolveBySlug(ctx, p.TenantSlug); err != nil {
		p.Printer.Debugf("community %q not resolved: %v", p.TenantSlug, err)
	} else {
		community = t.Name
		if !p.Printer.Structured() {
			p.Printer.Banner(tenant.BrandingOf(t), t.Slug)
		}
	}

	return p.Printer.Print(dashboardView{
		Dashboard: dashboard,
		Community: community,
		Name:      principal.DisplayName(),
		Email:     principal.Email,
		Role:      principal.Role,
		MFA:       principal.MFAEnabled,
	})
}
