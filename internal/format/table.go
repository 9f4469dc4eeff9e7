package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter handles table output formatting
type TableFormatter struct {
	w         io.Writer
	useColors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer, useColors bool) *TableFormatter {
	return &TableFormatter{
		w:         w,
		useColors: useColors,
	}
}

// Format formats data as a table. Records become a vertical property
// table, lists of records one row per record.
func (f *TableFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(f.w, "No data to display")
		return nil
	}

	if items, ok := listItems(data); ok {
		return f.formatList(items)
	}
	if fields, ok := recordFields(data); ok {
		return f.formatRecord(fields)
	}

	fmt.Fprintln(f.w, plainValue(data))
	return nil
}

// formatRecord formats a single record as a vertical table
func (f *TableFormatter) formatRecord(fields []field) error {
	table := tablewriter.NewWriter(f.w)
	table.SetHeader([]string{"Property", "Value"})
	f.configureTable(table, 2)

	for _, fd := range fields {
		table.Append([]string{titleCase(fd.Key), f.formatValue(fd.Value)})
	}

	table.Render()
	return nil
}

// formatList formats a list with headers taken from the first record
func (f *TableFormatter) formatList(items []interface{}) error {
	if len(items) == 0 {
		fmt.Fprintln(f.w, "No data to display")
		return nil
	}

	first, ok := recordFields(items[0])
	if !ok {
		return f.formatSimpleList(items)
	}

	headers := make([]string, len(first))
	for i, fd := range first {
		headers[i] = titleCase(fd.Key)
	}

	table := tablewriter.NewWriter(f.w)
	table.SetHeader(headers)
	f.configureTable(table, len(headers))

	for _, item := range items {
		fields, _ := recordFields(item)
		byKey := make(map[string]interface{}, len(fields))
		for _, fd := range fields {
			byKey[fd.Key] = fd.Value
		}

		row := make([]string, len(first))
		for i, fd := range first {
			row[i] = f.formatValue(byKey[fd.Key])
		}
		table.Append(row)
	}

	table.Render()
	return nil
}

// formatSimpleList formats a list of scalars
func (f *TableFormatter) formatSimpleList(items []interface{}) error {
	table := tablewriter.NewWriter(f.w)
	table.SetHeader([]string{"Value"})
	f.configureTable(table, 1)

	for _, item := range items {
		table.Append([]string{f.formatValue(item)})
	}

	table.Render()
	return nil
}

// configureTable sets up table appearance
func (f *TableFormatter) configureTable(table *tablewriter.Table, columns int) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	if f.useColors {
		// tablewriter wants one color per header
		colors := make([]tablewriter.Colors, columns)
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor}
		}
		table.SetHeaderColor(colors...)
	}
}

// formatValue formats a cell, coloring booleans
func (f *TableFormatter) formatValue(value interface{}) string {
	if b, ok := value.(bool); ok && f.useColors {
		if b {
			return color.GreenString("true")
		}
		return color.RedString("false")
	}
	return plainValue(value)
}
