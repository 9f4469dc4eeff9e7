package tenant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gatehouse/gatectl/internal/models"
)

// Default brand colors used when a tenant leaves them unset
const (
	DefaultPrimaryColor = "#06b6d4"
	DefaultAccentColor  = "#0f172a"
)

// RGB is a parsed brand color
type RGB struct {
	R, G, B int
}

// Hex formats c as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Branding is the theme of a tenant
type Branding struct {
	Name    string
	LogoURL string
	Primary RGB
	Accent  RGB
}

// BrandingOf returns the theme of t, substituting defaults for missing or
// malformed colors
func BrandingOf(t *models.Tenant) Branding {
	b := Branding{
		Primary: mustParse(DefaultPrimaryColor),
		Accent:  mustParse(DefaultAccentColor),
	}
	if t == nil {
		return b
	}
	b.Name = t.Name
	b.LogoURL = t.LogoURL
	if c, err := ParseHexColor(t.PrimaryColor); err == nil {
		b.Primary = c
	}
	if c, err := ParseHexColor(t.AccentColor); err == nil {
		b.Accent = c
	}
	return b
}

// ParseHexColor parses #rgb or #rrggbb
func ParseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func mustParse(s string) RGB {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
