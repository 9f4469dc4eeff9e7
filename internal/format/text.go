package format

import (
	"fmt"
	"io"
)

// TextFormatter handles simple text output formatting
type TextFormatter struct {
	w io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{w: w}
}

// Format formats data as "Key: value" lines
func (f *TextFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(f.w, "No data")
		return nil
	}
	if s, ok := data.(string); ok {
		fmt.Fprintln(f.w, s)
		return nil
	}

	if items, ok := listItems(data); ok {
		return f.formatList(items)
	}
	if fields, ok := recordFields(data); ok {
		f.formatRecord(fields, "")
		return nil
	}

	fmt.Fprintln(f.w, plainValue(data))
	return nil
}

func (f *TextFormatter) formatList(items []interface{}) error {
	if len(items) == 0 {
		fmt.Fprintln(f.w, "No data")
		return nil
	}

	for i, item := range items {
		fields, ok := recordFields(item)
		if !ok {
			fmt.Fprintln(f.w, f.formatValue(item))
			continue
		}
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		fmt.Fprintf(f.w, "Item %d:\n", i+1)
		f.formatRecord(fields, "  ")
	}
	return nil
}

func (f *TextFormatter) formatRecord(fields []field, indent string) {
	for _, fd := range fields {
		fmt.Fprintf(f.w, "%s%s: %s\n", indent, titleCase(fd.Key), f.formatValue(fd.Value))
	}
}

// formatValue formats a value for display
func (f *TextFormatter) formatValue(value interface{}) string {
	s := plainValue(value)
	if s == "" {
		return "N/A"
	}
	return s
}
