// Package portal wires the client core together for one CLI invocation.
package portal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gatehouse/gatectl/internal/api"
	"github.com/gatehouse/gatectl/internal/config"
	"github.com/gatehouse/gatectl/internal/format"
	"github.com/gatehouse/gatectl/internal/guard"
	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/route"
	"github.com/gatehouse/gatectl/internal/session"
	"github.com/gatehouse/gatectl/internal/tenant"
	"github.com/gatehouse/gatectl/internal/tokenstore"
)

// ErrNoPortal is returned when a command runs without a wired portal
var ErrNoPortal = errors.New("portal not initialized")

// Options selects how the portal is assembled
type Options struct {
	// Tenant overrides the slug derived from the configured host
	Tenant string
	// NoPersist keeps the token in memory only
	NoPersist bool
	Output    string
	Debug     bool

	Stdout     io.Writer
	Stderr     io.Writer
	Stdin      io.Reader
	HTTPClient *http.Client
}

// Portal holds the wired components
type Portal struct {
	Config     *config.Config
	TenantSlug string

	Tokens    tokenstore.Store
	API       *api.Client
	Session   *session.Session
	Tenants   *tenant.Resolver
	Navigator *route.Recorder
	Printer   *format.Printer
	Prompter  *format.Prompter

	// files is set when tokens are persisted to the config file
	files *tokenstore.FileStore
}

// New assembles the portal from configuration
func New(cfg *config.Config, opts Options) *Portal {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}

	outputFormat := opts.Output
	if outputFormat == "" {
		outputFormat = cfg.Format.Default
	}
	printer := &format.Printer{
		Out:    stdout,
		Err:    stderr,
		Colors: cfg.Format.Colors,
		Debug:  opts.Debug,
		Format: outputFormat,
	}

	override := opts.Tenant
	if override == "" {
		override = cfg.Tenant.Slug
	}
	slug := tenant.SlugFromHost(cfg.Tenant.Host, override)

	var tokens tokenstore.Store
	var files *tokenstore.FileStore
	if opts.NoPersist {
		// seeded from config or GATECTL_AUTH_TOKEN, never written back
		mem := tokenstore.NewMemoryStore()
		_ = mem.Set(cfg.Auth.Token)
		tokens = mem
	} else {
		files = tokenstore.NewFileStore()
		tokens = files
	}

	nav := route.NewRecorder(route.Home)
	nav.Out = stderr

	clientOpts := []api.Option{
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithNavigator(nav),
		api.WithTenant(slug),
		api.WithLogger(printer),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	client := api.NewClient(cfg.Server.URL, tokens, clientOpts...)

	sess := session.New(client, tokens, session.WithLogger(printer))
	client.OnSessionExpired(sess.Expire)

	return &Portal{
		Config:     cfg,
		TenantSlug: slug,
		Tokens:     tokens,
		API:        client,
		Session:    sess,
		Tenants:    tenant.NewResolver(client),
		Navigator:  nav,
		Printer:    printer,
		Prompter:   &format.Prompter{In: stdin, Out: stderr},
		files:      files,
	}
}

// RememberEmail records the account the next persisted token belongs to.
// It does nothing when tokens are not persisted.
func (p *Portal) RememberEmail(email string) {
	if p.files != nil {
		p.files.SetEmail(email)
	}
}

// Guard returns a route guard for the given roles in the current tenant
func (p *Portal) Guard(allowed ...models.Role) *guard.Guard {
	return guard.New(p.Session, p.Navigator, p.TenantSlug, allowed...)
}

// Landing returns the landing route of the signed-in principal
func (p *Portal) Landing() string {
	principal := p.Session.Principal()
	if principal == nil {
		return route.LoginFor(p.TenantSlug)
	}
	return route.Landing(principal.Role, p.TenantSlug)
}

type portalKey struct{}

// WithContext stores p in ctx
func WithContext(ctx context.Context, p *Portal) context.Context {
	return context.WithValue(ctx, portalKey{}, p)
}

// FromContext returns the portal stored in ctx
func FromContext(ctx context.Context) (*Portal, error) {
	if ctx == nil {
		return nil, ErrNoPortal
	}
	p, ok := ctx.Value(portalKey{}).(*Portal)
	if !ok || p == nil {
		return nil, ErrNoPortal
	}
	return p, nil
}
