package fx

import (
	"fmt"
	"strings"
)

// Severity distinguishes errors from warnings.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a single compiler message tied to a source location.
// Code is an HLSL-style numeric code (e.g. 3000 for syntax errors); a
// code of zero renders without the Xnnnn tag.
type Diagnostic struct {
	Loc      Location
	Severity Severity
	Code     int
	Message  string
}

// String renders the diagnostic in the familiar
// "source(line, col): error Xnnnn: message" form.
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d, %d): ", d.Loc.Source, d.Loc.Line, d.Loc.Column)
	kind := "error"
	if d.Severity == SeverityWarning {
		kind = "warning"
	}
	if d.Code == 0 {
		fmt.Fprintf(&sb, "%s: ", kind)
	} else {
		fmt.Fprintf(&sb, "%s X%d: ", kind, d.Code)
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// DiagnosticList accumulates the messages of one compilation. Recording
// a diagnostic never aborts parsing; the parser resynchronizes and
// continues, so the list may hold many entries.
type DiagnosticList []Diagnostic

func (l *DiagnosticList) errorf(loc Location, code int, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{Loc: loc, Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (l *DiagnosticList) warningf(loc Location, code int, format string, args ...interface{}) {
	*l = append(*l, Diagnostic{Loc: loc, Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l DiagnosticList) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// String renders all diagnostics, one per line.
func (l DiagnosticList) String() string {
	var sb strings.Builder
	for _, d := range l {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
