package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// fatih/color disables itself when stdout is not a terminal
var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// printValue writes v as JSON or YAML, or through table for the table format
func printValue(w io.Writer, format string, v interface{}, table func(io.Writer) error) error {
	switch format {
	case "table", "text":
		return table(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// printTable prints left-aligned columns under a colored header
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "  ")
		}
		_, _ = headerColor.Fprintf(w, "%-*s", widths[i], h)
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		cells := make([]string, 0, len(widths))
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			cells = append(cells, fmt.Sprintf("%-*s", widths[i], cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func printEmpty(w io.Writer, msg string) {
	_, _ = dimColor.Fprintf(w, "%s\n", msg)
}
