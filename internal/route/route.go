// Package route names the portal locations used for redirects: login pages
// and the per-role landing shells.
package route

import (
	"strings"

	"github.com/gatehouse/gatectl/internal/models"
)

const (
	// Login is the tenant-less login page
	Login = "/login"
	// PlatformLogin is the login page of platform operators
	PlatformLogin = "/platform/login"
	// PlatformHome is where super admins land
	PlatformHome = "/platform/tenants"
	// Home is the fallback landing route
	Home = "/"
)

// LoginFor returns the login route of a tenant
func LoginFor(tenantSlug string) string {
	if tenantSlug == "" {
		return Login
	}
	return "/" + tenantSlug + Login
}

// IsLogin reports whether path is any login route
func IsLogin(path string) bool {
	path = strings.TrimSuffix(path, "/")
	return path == Login || strings.HasSuffix(path, Login)
}

// Landing returns the default route for role inside a tenant
func Landing(role models.Role, tenantSlug string) string {
	switch role {
	case models.RoleAdmin:
		return scoped(tenantSlug, "/dashboard")
	case models.RoleResident, models.RoleFamilyMember:
		return scoped(tenantSlug, "/resident")
	case models.RoleGuard:
		return scoped(tenantSlug, "/security")
	case models.RoleSuperAdmin:
		return PlatformHome
	default:
		return Home
	}
}

func scoped(tenantSlug, path string) string {
	if tenantSlug == "" {
		return path
	}
	return "/" + tenantSlug + path
}
