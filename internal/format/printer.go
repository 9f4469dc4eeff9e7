package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Printer writes command output and colored status messages. Data goes to
// Out, messages and debug traces go to Err.
type Printer struct {
	mu     sync.Mutex
	Out    io.Writer
	Err    io.Writer
	Colors bool
	Debug  bool
	Format string
}

// Print formats data using the configured output format
func (p *Printer) Print(data interface{}) error {
	format := p.Format
	if format == "" {
		format = "table"
	}
	formatter, err := GetFormatter(format, p.Out, p.Colors)
	if err != nil {
		return err
	}
	return formatter.Format(data)
}

// Structured reports whether the output format is machine readable
func (p *Printer) Structured() bool {
	switch p.Format {
	case "json", "json-compact", "yaml":
		return true
	}
	return false
}

// Success prints a success message
func (p *Printer) Success(message string, args ...interface{}) {
	p.message(color.FgGreen, "", message, args...)
}

// Error prints an error message
func (p *Printer) Error(message string, args ...interface{}) {
	p.message(color.FgRed, "Error: ", message, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(message string, args ...interface{}) {
	p.message(color.FgYellow, "Warning: ", message, args...)
}

// Info prints an info message
func (p *Printer) Info(message string, args ...interface{}) {
	p.message(color.FgBlue, "Info: ", message, args...)
}

// Debugf prints a debug message if debug mode is enabled
func (p *Printer) Debugf(message string, args ...interface{}) {
	if !p.Debug {
		return
	}
	p.message(color.FgCyan, "", "[DEBUG] "+message, args...)
}

func (p *Printer) message(attr color.Attribute, plainPrefix, message string, args ...interface{}) {
	text := fmt.Sprintf(message, args...)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	w := p.Err
	if w == nil {
		w = os.Stderr
	}
	if p.Colors {
		color.New(attr).Fprint(w, text)
		return
	}
	fmt.Fprint(w, plainPrefix+text)
}
