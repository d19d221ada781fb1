package ot

import (
	"errors"
	"fmt"
	"sync"
)

// Errors returned by the engine. Callers may test for them with errors.Is.
var (
	// ErrNoFont is returned if a buffer does not contain a usable font.
	ErrNoFont = errors.New("no usable font")
	// ErrTableMissing is returned if an operation needs a table which is absent or malformed.
	ErrTableMissing = errors.New("font table missing")
	// ErrGlyphRange is returned for glyph indices outside [0, NumberOfGlyphs).
	ErrGlyphRange = errors.New("glyph index out of range")
	// ErrCoordCount is returned if a coordinate slice does not match the font's axis count.
	ErrCoordCount = errors.New("coordinate count does not match axis count")
	// ErrOutlineDepth is returned if glyph composition or subroutine nesting is too deep.
	ErrOutlineDepth = errors.New("outline nesting too deep")
	// ErrCharstring is returned for malformed CFF charstring programs.
	ErrCharstring = errors.New("malformed charstring")
	// ErrBBoxOverflow is returned if a computed bounding box does not fit 16 bit coordinates.
	ErrBBoxOverflow = errors.New("bounding box overflow")
)

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates an error that makes a table unusable but leaves the font usable.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated while tables are decoded and can be inspected at any time.
// As tables are decoded lazily, the list of errors may grow while a font is in use.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "cmap", "glyf")
	Section  string        // Specific section within the table (e.g., "Header", "Subtable")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The OpenType table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
// Tables are decoded on first access, possibly from different goroutines,
// therefore the collector is guarded by a mutex.
type errorCollector struct {
	mu       sync.Mutex
	errors   []FontError
	warnings []FontWarning
}

// addError records a parsing error.
func (ec *errorCollector) addError(table Tag, section string, issue string, severity ErrorSeverity, offset uint32) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

// addWarning records a parsing warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

// snapshot returns copies of the errors and warnings collected so far.
func (ec *errorCollector) snapshot() ([]FontError, []FontWarning) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	errs := make([]FontError, len(ec.errors))
	copy(errs, ec.errors)
	warns := make([]FontWarning, len(ec.warnings))
	copy(warns, ec.warnings)
	return errs, warns
}

// criticalErrors returns all errors with critical severity.
func (ec *errorCollector) criticalErrors() []FontError {
	errs, _ := ec.snapshot()
	critical := make([]FontError, 0)
	for _, err := range errs {
		if err.Severity == SeverityCritical {
			critical = append(critical, err)
		}
	}
	return critical
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

// errNoFont wraps ErrNoFont with a user level message.
func errNoFont(message string) error {
	return fmt.Errorf("%w: %w", ErrNoFont, errFontFormat(message))
}
