package schematic

import (
	"errors"
	"fmt"
)

// ErrEmptyFile is returned for a file without a header line.
var ErrEmptyFile = errors.New("schematic: file is empty")

// FormatError reports malformed input. Line is 1-based; Text holds the
// offending line.
type FormatError struct {
	Line int
	Text string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "schematic: " + e.Msg
	}
	return fmt.Sprintf("schematic: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// VersionError reports a file written by a newer format version.
type VersionError struct {
	Got       Version
	Supported Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("schematic: file version %s is newer than supported version %s", e.Got, e.Supported)
}

// UnknownComponentError reports a component type without a schema.
type UnknownComponentError struct {
	Type string
	Line int
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("schematic: line %d: unknown component type %q", e.Line, e.Type)
}

func formatErr(line int, text, format string, args ...any) error {
	return &FormatError{Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
}
