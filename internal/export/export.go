// Package export writes a user's history, activities, goals and report as
// CSV, JSON, an XLSX workbook or a PNG trend chart.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/history"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrUnknownFormat is returned by ParseFormat.
const ErrUnknownFormat = constError("unknown export format")

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want csv, json or xlsx)", ErrUnknownFormat, s)
	}
}

// UserData is everything stored for one user.
type UserData struct {
	User       history.User             `json:"user"`
	ExportedAt time.Time                `json:"exported_at"`
	Footprints []calculator.DailyRecord `json:"footprints"`
	Activities []history.Activity       `json:"activities"`
	Goals      []history.Goal           `json:"goals"`
}

// FileName returns the conventional export file name for kind
// ("footprints", "activities", "user") and format.
func FileName(userID int64, kind string, f Format, at time.Time) string {
	return fmt.Sprintf("export_%s_%d_%s.%s", kind, userID, at.Format("20060102_150405"), f)
}

// WriteJSON writes data as indented JSON.
func WriteJSON(w io.Writer, data UserData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding user export: %w", err)
	}
	return nil
}
