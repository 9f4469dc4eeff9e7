package format

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Formatter renders a value in one output format
type Formatter interface {
	Format(data interface{}) error
}

// Formats lists the accepted --output values
var Formats = []string{"table", "json", "json-compact", "yaml", "text"}

// GetFormatter returns a formatter for the named format writing to w
func GetFormatter(format string, w io.Writer, useColors bool) (Formatter, error) {
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case "table":
		return NewTableFormatter(w, useColors), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "json-compact":
		return NewJSONFormatter(w, false), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "text":
		return NewTextFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use one of %s)", format, strings.Join(Formats, ", "))
	}
}

// titleCase turns snake_case or a Go field name into a display header
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
