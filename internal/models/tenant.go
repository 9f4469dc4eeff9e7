package models

import "time"

// DefaultTenantSlug is used when no tenant can be derived from the host
const DefaultTenantSlug = "default"

// TenantLimits caps the number of accounts per role
type TenantLimits struct {
	MaxAdmins    int `json:"max_admins" yaml:"max_admins"`
	MaxGuards    int `json:"max_guards" yaml:"max_guards"`
	MaxResidents int `json:"max_residents" yaml:"max_residents"`
}

// Tenant represents a gated community resolved by slug or domain
type Tenant struct {
	ID           int          `json:"id" yaml:"id"`
	Slug         string       `json:"slug" yaml:"slug"`
	Name         string       `json:"name" yaml:"name"`
	Domain       string       `json:"domain,omitempty" yaml:"domain,omitempty"`
	IsActive     bool         `json:"is_active" yaml:"is_active"`
	LogoURL      string       `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	PrimaryColor string       `json:"primary_color,omitempty" yaml:"primary_color,omitempty"`
	AccentColor  string       `json:"accent_color,omitempty" yaml:"accent_color,omitempty"`
	Limits       TenantLimits `json:"limits" yaml:"limits"`
	PackageID    *int         `json:"package_id,omitempty" yaml:"package_id,omitempty"`
	CreatedAt    *time.Time   `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
