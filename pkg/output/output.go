// Package output prints command results as text, tables or JSON.
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/chhengkhim/confessboard/pkg/config"
	"github.com/fatih/color"
	json "github.com/json-iterator/go"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatText  OutputFormat = "text"
)

// GetOutputFormat returns the configured output format
func GetOutputFormat() OutputFormat {
	switch config.GetString("output.format") {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// ValidateOutputFormat checks if format is valid
func ValidateOutputFormat(format string) bool {
	return format == "json" || format == "table" || format == "text"
}

// Field is one labelled value of a record
type Field struct {
	Key   string
	Value interface{}
}

// Printer writes results in one format
type Printer struct {
	Out    io.Writer
	Format OutputFormat
}

// New creates a printer writing to w
func New(w io.Writer, format OutputFormat) *Printer {
	return &Printer{Out: w, Format: format}
}

// Default prints to the terminal in the configured format
func Default() *Printer {
	return New(color.Output, GetOutputFormat())
}

// Print outputs arbitrary data with an optional title
func (p *Printer) Print(title string, data interface{}) error {
	if p.Format != FormatJSON && title != "" {
		fmt.Fprintf(p.Out, "%s:\n", title)
	}
	return p.prettyJSON(data)
}

// Table prints rows under headers. In JSON mode data is printed instead,
// so scripts get the full records.
func (p *Printer) Table(headers []string, rows [][]string, data interface{}) error {
	if p.Format == FormatJSON {
		return p.prettyJSON(data)
	}
	if len(rows) == 0 {
		fmt.Fprintln(p.Out, "No results.")
		return nil
	}
	p.table(headers, rows)
	return nil
}

// Record prints fields in order as key/value lines
func (p *Printer) Record(title string, fields []Field) error {
	switch p.Format {
	case FormatJSON:
		obj := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			obj[f.Key] = f.Value
		}
		return p.prettyJSON(obj)
	case FormatTable:
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f.Key, fmt.Sprintf("%v", f.Value)})
		}
		p.table([]string{"Field", "Value"}, rows)
		return nil
	default:
		if title != "" {
			fmt.Fprintf(p.Out, "%s:\n", title)
		}
		bold := color.New(color.Bold)
		for _, f := range fields {
			bold.Fprint(p.Out, f.Key+": ")
			fmt.Fprintf(p.Out, "%v\n", f.Value)
		}
		return nil
	}
}

// Success prints a success message
func (p *Printer) Success(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(p.Out, msg+"\n", args...)
}

// Error prints an error message
func (p *Printer) Error(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(p.Out, "Error: "+msg+"\n", args...)
}

// Info prints an info message
func (p *Printer) Info(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(p.Out, msg+"\n", args...)
}

// Warning prints a warning message
func (p *Printer) Warning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(p.Out, "Warning: "+msg+"\n", args...)
}

func (p *Printer) prettyJSON(data interface{}) error {
	s, err := FormatAsPrettyJSON(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.Out, s)
	return nil
}

func (p *Printer) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	// Print headers
	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	// Print rows
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

// FormatAsJSON converts data to JSON string (convenience function)
func FormatAsJSON(data interface{}) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// FormatAsPrettyJSON converts data to pretty JSON string (convenience function)
func FormatAsPrettyJSON(data interface{}) (string, error) {
	jsonData, err := json.ConfigCompatibleWithStandardLibrary.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
