// Package backup writes the tracker document to portable files and reads
// JSON backups back in.
package backup

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/lexa/internal/tracker"
)

var (
	ErrInvalidDocument    = errors.New("invalid backup document")
	ErrUnsupportedVersion = errors.New("unsupported backup format version")
	ErrUnknownFormat      = errors.New("unknown export format")
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatICS  Format = "ics"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatXLSX, FormatICS}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FileName returns the default export file name for the given day,
// e.g. lexa-backup-2026-03-10.json.
func FileName(now time.Time, f Format) string {
	return fmt.Sprintf("lexa-backup-%s.%s", now.Format(tracker.DateLayout), f)
}

// Export writes s to w in format f. now stamps calendar exports.
func Export(w io.Writer, s *tracker.AppState, f Format, now time.Time) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatICS:
		return WriteICS(w, s, now)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
