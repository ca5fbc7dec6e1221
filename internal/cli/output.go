package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/config"
)

// Output formats.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// headerSeparatorLen is the length of the separator line below section headers.
const headerSeparatorLen = 40

// maxTextLen truncates long free text in table cells.
const maxTextLen = 60

// outputFormat returns the --output value or the configured default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case outputTable, outputJSON, outputNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// newTable returns a tabwriter with the CLI's column layout.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

// writeSection prints a section header with an underline.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", min(len(title), headerSeparatorLen)))
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderNDJSON writes one JSON object per line. A broken pipe ends the
// stream without error so output can be piped to head.
func renderNDJSON[T any](w io.Writer, items []T) error {
	encoder := json.NewEncoder(w)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			if isBrokenPipe(err) {
				return nil
			}
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}

// renderStructured handles the json and ndjson formats for commands whose
// ndjson form streams items. It reports false for table output.
func renderStructured[T any](w io.Writer, format string, doc any, items []T) (bool, error) {
	switch format {
	case outputJSON:
		return true, renderJSON(w, doc)
	case outputNDJSON:
		return true, renderNDJSON(w, items)
	default:
		return false, nil
	}
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// isBrokenPipe checks if an error is a broken pipe error (SIGPIPE).
// This occurs when output is piped to commands like `head` that close the pipe early.
func isBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE
	}
	return strings.Contains(err.Error(), "broken pipe")
}
