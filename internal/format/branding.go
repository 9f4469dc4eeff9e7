package format

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/mdp/qrterminal/v3"

	"github.com/gatehouse/gatectl/internal/tenant"
)

// Banner prints the tenant name in its brand colors
func (p *Printer) Banner(b tenant.Branding, slug string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name := b.Name
	if name == "" {
		name = slug
	}
	if !p.Colors {
		fmt.Fprintf(p.Out, "%s (%s)\n", name, slug)
		return
	}

	title := color.RGB(b.Primary.R, b.Primary.G, b.Primary.B).Add(color.Bold)
	sub := color.RGB(b.Accent.R, b.Accent.G, b.Accent.B)
	fmt.Fprintf(p.Out, "%s %s\n", title.Sprint(name), sub.Sprintf("(%s)", slug))
}

// Swatch renders a color sample followed by its hex code
func (p *Printer) Swatch(c tenant.RGB) string {
	hex := c.Hex()
	if !p.Colors {
		return hex
	}
	return color.BgRGB(c.R, c.G, c.B).Sprint("  ") + " " + hex
}

// QR prints a scannable code for an otpauth URL
func (p *Printer) QR(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	qrterminal.GenerateHalfBlock(url, qrterminal.L, p.Out)
}
