// Package tenant resolves the community a CLI invocation talks to and
// exposes its branding.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/gatehouse/gatectl/internal/models"
	"github.com/gatehouse/gatectl/internal/utils"
)

var (
	// ErrNotFound is returned when no tenant matches the slug
	ErrNotFound = errors.New("tenant not found")
	// ErrInactive is returned when the tenant exists but is disabled
	ErrInactive = errors.New("tenant is inactive")
)

// Fetcher loads a tenant record from the backend
type Fetcher interface {
	TenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

// Resolver resolves tenants by slug and caches them for its lifetime
type Resolver struct {
	fetcher Fetcher

	mu    sync.Mutex
	cache map[string]*models.Tenant
}

// NewResolver creates a resolver with an empty cache
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		cache:   make(map[string]*models.Tenant),
	}
}

// ResolveBySlug returns the tenant for slug
func (r *Resolver) ResolveBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := utils.ValidateSlug(slug); err != nil {
		return nil, err
	}

	r.mu.Lock()
	cached, ok := r.cache[slug]
	r.mu.Unlock()
	if ok {
		cp := *cached
		return &cp, nil
	}

	t, err := r.fetcher.TenantBySlug(ctx, slug)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return nil, err
	}
	if !t.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrInactive, slug)
	}

	r.mu.Lock()
	r.cache[slug] = t
	r.mu.Unlock()

	cp := *t
	return &cp, nil
}

// Forget drops a cached tenant so the next resolve hits the backend
func (r *Resolver) Forget(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, slug)
}

// SlugFromHost derives a tenant slug from a host name. A non-empty override
// wins; localhost, IP addresses and hosts without a subdomain map to the
// default tenant.
func SlugFromHost(host, override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return strings.ToLower(override)
	}

	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return models.DefaultTenantSlug
	}

	parts := strings.Split(host, ".")
	if len(parts) > 2 {
		return parts[0]
	}
	return models.DefaultTenantSlug
}
