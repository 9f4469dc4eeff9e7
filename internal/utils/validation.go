package utils

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	otpCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	return check("email", strings.TrimSpace(email),
		validation.Required.Error("email is required"),
		is.Email.Error("invalid email format"),
	)
}

// ValidatePassword validates a login password. Strength rules belong to the
// backend; the client only refuses to send an empty one.
func ValidatePassword(password string) error {
	return check("password", password,
		validation.Required.Error("password is required"),
	)
}

// ValidateNewPassword validates a password chosen by the user
func ValidateNewPassword(password string) error {
	return check("new_password", password,
		validation.Required.Error("password is required"),
		validation.Length(8, 0).Error("password must be at least 8 characters long"),
	)
}

// ValidateOTPCode validates a 6-digit time-based one-time code
func ValidateOTPCode(code string) error {
	return check("code", strings.TrimSpace(code),
		validation.Required.Error("code is required"),
		validation.Match(otpCodePattern).Error("code must be 6 digits"),
	)
}

// ValidateSlug validates a tenant slug
func ValidateSlug(slug string) error {
	return check("slug", slug,
		validation.Required.Error("tenant slug is required"),
		validation.Length(1, 63).Error("tenant slug must be at most 63 characters"),
		validation.Match(slugPattern).Error("tenant slug can only contain lowercase letters, numbers, and hyphens"),
	)
}

// ValidateServerURL validates the base URL of the portal API
func ValidateServerURL(url string) error {
	return check("server.url", strings.TrimSpace(url),
		validation.Required.Error("server URL is required"),
		is.RequestURL.Error("server URL must be an absolute URL"),
	)
}

func check(field string, value string, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return NewValidationError(field, err.Error())
	}
	return nil
}
