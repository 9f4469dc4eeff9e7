package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the portal role of an authenticated principal
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleResident     Role = "resident"
	RoleGuard        Role = "guard"
	RoleFamilyMember Role = "family_member"
	RoleSuperAdmin   Role = "super_admin"
)

// IsValid checks if the role is one the portal knows about
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleGuard, RoleFamilyMember, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the role
func (r Role) String() string {
	return string(r)
}

// Principal represents the user returned by /users/me
type Principal struct {
	ID                int        `json:"id" yaml:"id"`
	Email             string     `json:"email" yaml:"email"`
	FullName          string     `json:"full_name" yaml:"full_name"`
	Role              Role       `json:"role" yaml:"role"`
	IsActive          bool       `json:"is_active" yaml:"is_active"`
	MFAEnabled        bool       `json:"mfa_enabled" yaml:"mfa_enabled"`
	IsPasswordChanged bool       `json:"is_password_changed" yaml:"is_password_changed"`
	HouseAddress      string     `json:"house_address,omitempty" yaml:"house_address,omitempty"`
	PhoneNumber       string     `json:"phone_number,omitempty" yaml:"phone_number,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty" yaml:"profile_picture_url,omitempty"`
	TenantID          *int       `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// DisplayName returns the full name, falling back to the email
func (p *Principal) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// LoginResult is the outcome of POST /login/access-token. It is either a
// DirectToken or an MFARequired challenge.
type LoginResult interface {
	isLoginResult()
}

// DirectToken carries a full session credential
type DirectToken struct {
	AccessToken string
	TokenType   string
}

// MFARequired carries the temp_token that must be exchanged with a TOTP code
type MFARequired struct {
	TempToken string
}

func (DirectToken) isLoginResult() {}
func (MFARequired) isLoginResult() {}

// loginResponse mirrors the two-shape wire payload
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	MFARequired bool   `json:"mfa_required"`
	TempToken   string `json:"temp_token"`
}

// ParseLoginResult decodes a login response body into a LoginResult
func ParseLoginResult(data []byte) (LoginResult, error) {
	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}

	switch {
	case resp.MFARequired:
		if resp.TempToken == "" {
			return nil, fmt.Errorf("login response requires MFA but has no temp_token")
		}
		return MFARequired{TempToken: resp.TempToken}, nil
	case resp.AccessToken != "":
		return DirectToken{AccessToken: resp.AccessToken, TokenType: resp.TokenType}, nil
	default:
		return nil, fmt.Errorf("login response has neither access_token nor mfa challenge")
	}
}

// TokenResponse is the body returned by /mfa/login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MFASetup represents a freshly generated TOTP secret
type MFASetup struct {
	Secret     string `json:"secret" yaml:"secret"`
	OTPAuthURL string `json:"otpauth_url" yaml:"otpauth_url"`
}
