// Package guard decides whether a role-restricted subtree may run for the
// current session, and redirects when it may not.
package guard

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/route"
	"github.com/gatehouse/gatectl/internal/session"
)

var (
	// ErrRedirected is returned when the guard sent the navigator elsewhere
	ErrRedirected = errors.New("redirected")
	// ErrNotResolved is returned while the session is still loading
	ErrNotResolved = errors.New("session not resolved")
)

// Outcome is what the guard does with a subtree
type Outcome int

const (
	Loading Outcome = iota
	Redirect
	Render
)

// String returns a readable outcome name
func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the guard verdict; Location is set for Redirect
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide is the guard as a pure function of the session snapshot and the
// allowed roles. An empty allowed list admits any authenticated role.
func Decide(snap session.Snapshot, allowed []models.Role, tenantSlug string) Decision {
	if !snap.Resolved || snap.State == session.StateAuthenticating {
		return Decision{Outcome: Loading}
	}
	if !snap.Authenticated() {
		return Decision{Outcome: Redirect, Location: route.LoginFor(tenantSlug)}
	}
	if !permits(allowed, snap.Principal.Role) {
		return Decision{Outcome: Redirect, Location: route.Landing(snap.Principal.Role, tenantSlug)}
	}
	return Decision{Outcome: Render}
}

func permits(allowed []models.Role, role models.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// SnapshotSource is anything that can report session state
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Guard protects a subtree for a fixed role set. Login, when set,
// replaces the tenant login route for sessions that are not signed in.
type Guard struct {
	Session   SnapshotSource
	Navigator route.Navigator
	Allowed   []models.Role
	Tenant    string
	Login     string
}

// New creates a guard for the given roles
func New(src SnapshotSource, nav route.Navigator, tenantSlug string, allowed ...models.Role) *Guard {
	return &Guard{
		Session:   src,
		Navigator: nav,
		Allowed:   allowed,
		Tenant:    tenantSlug,
	}
}

// Decide evaluates the guard against the current session
func (g *Guard) Decide() Decision {
	snap := g.Session.Snapshot()
	d := Decide(snap, g.Allowed, g.Tenant)
	if d.Outcome == Redirect && !snap.Authenticated() && g.Login != "" {
		d.Location = g.Login
	}
	return d
}

// Protect runs render only when the guard decides Render
func (g *Guard) Protect(ctx context.Context, render func(ctx context.Context) error) error {
	d := g.Decide()
	switch d.Outcome {
	case Render:
		return render(ctx)
	case Redirect:
		if g.Navigator != nil && !alreadyAt(g.Navigator.Location(), d.Location) {
			g.Navigator.Redirect(d.Location)
		}
		return ErrRedirected
	default:
		return ErrNotResolved
	}
}

// alreadyAt reports whether a redirect to target would not move the
// navigator, treating all login routes as one place
func alreadyAt(location, target string) bool {
	return location == target || (route.IsLogin(location) && route.IsLogin(target))
}

// Wrap guards every runnable command in the tree rooted at cmd. The guard
// is built per invocation by factory, which sees the executing command.
func Wrap(cmd *cobra.Command, factory func(cmd *cobra.Command) (*Guard, error)) {
	if cmd.RunE != nil {
		run := cmd.RunE
		cmd.RunE = func(c *cobra.Command, args []string) error {
			g, err := factory(c)
			if err != nil {
				return err
			}
			return g.Protect(c.Context(), func(context.Context) error {
				return run(c, args)
			})
		}
	}
	for _, child := range cmd.Commands() {
		Wrap(child, factory)
	}
}
