// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// numericIDDigits caps generated identifiers so they stay well inside int64 and survive
// a round trip through JSON number parsing in browsers.
const numericIDDigits = 15

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that appends to the file at path, creating parent directories as needed.
//
// Used by the TUI so log output does not interfere with rendering.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ConfigureLogger applies the level named in [LogConfig], ignoring unknown names.
func ConfigureLogger(l *log.Logger, cfg LogConfig) {
	if cfg.Level == "" {
		return
	}
	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		SetLogLevel(l, lvl)
	}
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NumericID derives a positive integer identifier from the decimal digits of a random v4 UUID,
// truncated to 15 digits. Used for user identifiers at signup and server-assigned song identifiers.
func NumericID() int64 {
	for {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, GenerateID())

		if len(digits) > numericIDDigits {
			digits = digits[:numericIDDigits]
		}

		id, err := strconv.ParseInt(digits, 10, 64)
		if err == nil && id > 0 {
			return id
		}
	}
}

// ClientSongID derives a song identifier the way browser clients do: the leading hex group of a
// random v4 UUID read as a base-16 integer.
func ClientSongID() int64 {
	for {
		head, _, _ := strings.Cut(GenerateID(), "-")
		id, err := strconv.ParseInt(head, 16, 64)
		if err == nil && id > 0 {
			return id
		}
	}
}

// MarshalJSON marshals data, indenting with two spaces when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
