// Package errors provides structured error types for the structured-field codec.
//
// This package defines FieldError, a unified error type that represents
// parse, construction, and query errors with rich metadata for display
// and programmatic handling.
package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"text/template"
)

// As and Is re-export the standard library helpers so callers of this
// package do not need a second errors import.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassSyntax    ErrorClass = "syntax"    // Field value does not match the grammar
	ClassArgument  ErrorClass = "argument"  // Well-typed but semantically disallowed value
	ClassOffset    ErrorClass = "offset"    // Key or index does not resolve to a member
	ClassForbidden ErrorClass = "forbidden" // Mutation attempted through a read-only facade
	ClassViolation ErrorClass = "violation" // A validator rejected a value or a requirement failed
)

// FieldError represents any error from parsing, construction, or querying
// a structured field value.
type FieldError struct {
	Class   ErrorClass     // Error category
	Code    string         // Error code (e.g., "SYNTAX-0001")
	Message string         // Human-readable message
	Hints   []string       // Suggestions for fixing
	Offset  int            // 0-based byte offset into the field value (-1 if unknown)
	Data    map[string]any // Template variables
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *FieldError) String() string {
	var sb strings.Builder

	if e.Offset >= 0 {
		sb.WriteString(fmt.Sprintf("offset %d: ", e.Offset))
	}
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// WithOffset returns a copy of the error with the byte offset set.
func (e *FieldError) WithOffset(offset int) *FieldError {
	copy := *e
	copy.Offset = offset
	return &copy
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Syntax errors (SYNTAX-0xxx)
	// ========================================
	"SYNTAX-0001": {
		Class:    ClassSyntax,
		Template: "unexpected end of input, expected {{.Expected}}",
	},
	"SYNTAX-0002": {
		Class:    ClassSyntax,
		Template: "invalid character {{printf \"%q\" .Char}} in {{.In}}",
	},
	"SYNTAX-0003": {
		Class:    ClassSyntax,
		Template: "trailing characters after {{.Structure}}",
	},
	"SYNTAX-0004": {
		Class:    ClassSyntax,
		Template: "integer has more than 15 digits",
	},
	"SYNTAX-0005": {
		Class:    ClassSyntax,
		Template: "decimal has more than 12 integral digits",
	},
	"SYNTAX-0006": {
		Class:    ClassSyntax,
		Template: "decimal has more than 3 fractional digits",
	},
	"SYNTAX-0007": {
		Class:    ClassSyntax,
		Template: "number ends with a decimal point",
	},
	"SYNTAX-0008": {
		Class:    ClassSyntax,
		Template: "unterminated {{.Structure}}",
	},
	"SYNTAX-0009": {
		Class:    ClassSyntax,
		Template: "invalid escape sequence in string",
		Hints:    []string{`only \" and \\ are valid escapes`},
	},
	"SYNTAX-0010": {
		Class:    ClassSyntax,
		Template: "invalid base64 in byte sequence: {{.Reason}}",
	},
	"SYNTAX-0011": {
		Class:    ClassSyntax,
		Template: "invalid key {{printf \"%q\" .Key}}",
		Hints:    []string{"keys start with a lowercase letter or '*' and contain only [a-z0-9_.*-]"},
	},
	"SYNTAX-0012": {
		Class:    ClassSyntax,
		Template: "{{.Type}} values require RFC 9651",
	},
	"SYNTAX-0013": {
		Class:    ClassSyntax,
		Template: "invalid percent escape in display string",
		Hints:    []string{"percent escapes are '%' followed by two lowercase hex digits"},
	},
	"SYNTAX-0014": {
		Class:    ClassSyntax,
		Template: "display string is not valid UTF-8",
	},
	"SYNTAX-0015": {
		Class:    ClassSyntax,
		Template: "{{.Type}} value out of range",
	},
	"SYNTAX-0016": {
		Class:    ClassSyntax,
		Template: "date must be an integer number of seconds",
	},

	// ========================================
	// Argument errors (ARG-0xxx)
	// ========================================
	"ARG-0001": {
		Class:    ClassArgument,
		Template: "an item used as a {{.Where}} value must carry no parameters",
	},
	"ARG-0002": {
		Class:    ClassArgument,
		Template: "cannot use {{.Type}} as a bare item",
	},
	"ARG-0003": {
		Class:    ClassArgument,
		Template: "expected {{.Expected}} value, got {{.Got}}",
	},
	"ARG-0004": {
		Class:    ClassArgument,
		Template: "cannot render {{.Type}} value under RFC 8941",
	},
	"ARG-0005": {
		Class:    ClassArgument,
		Template: "cannot use {{.Type}} as a {{.Where}} member",
	},

	// ========================================
	// Offset errors (OFFSET-0xxx)
	// ========================================
	"OFFSET-0001": {
		Class:    ClassOffset,
		Template: "key {{printf \"%q\" .Key}} not found",
	},
	"OFFSET-0002": {
		Class:    ClassOffset,
		Template: "index {{.Index}} out of range (length {{.Length}})",
	},

	// ========================================
	// Forbidden operations (FORBID-0xxx)
	// ========================================
	"FORBID-0001": {
		Class:    ClassForbidden,
		Template: "cannot modify a read-only view",
	},

	// ========================================
	// Violations (VIOL-0xxx)
	// ========================================
	"VIOL-0001": {
		Class:    ClassViolation,
		Template: "member at key {{printf \"%q\" .Key}} rejected: {{.Reason}}",
	},
	"VIOL-0002": {
		Class:    ClassViolation,
		Template: "member at index {{.Index}} rejected: {{.Reason}}",
	},
	"VIOL-0003": {
		Class:    ClassViolation,
		Template: "required key {{printf \"%q\" .Key}} is missing",
	},
	"VIOL-0004": {
		Class:    ClassViolation,
		Template: "required index {{.Index}} is missing",
	},
}

// New creates a FieldError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *FieldError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &FieldError{
			Class:   ClassArgument,
			Code:    code,
			Message: msg,
			Offset:  -1,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &FieldError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Offset:  -1,
		Data:    data,
	}
}

// NewWithOffset creates a FieldError with the byte offset set.
func NewWithOffset(code string, offset int, data map[string]any) *FieldError {
	err := New(code, data)
	err.Offset = offset
	return err
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *FieldError {
	return &FieldError{
		Class:   class,
		Message: message,
		Offset:  -1,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// classOf extracts the class of an error, or "" if it is not a FieldError.
func classOf(err error) ErrorClass {
	var fe *FieldError
	if As(err, &fe) {
		return fe.Class
	}
	return ""
}

// IsSyntax reports whether err is a grammar violation.
func IsSyntax(err error) bool { return classOf(err) == ClassSyntax }

// IsArgument reports whether err is a semantically disallowed argument.
func IsArgument(err error) bool { return classOf(err) == ClassArgument }

// IsOffset reports whether err is an unresolved key or index.
// Offset errors are caller-recoverable: query-with-default layers catch
// them locally and substitute a default.
func IsOffset(err error) bool { return classOf(err) == ClassOffset }

// IsForbidden reports whether err is a mutation through a read-only view.
func IsForbidden(err error) bool { return classOf(err) == ClassForbidden }

// IsViolation reports whether err is a validator rejection.
func IsViolation(err error) bool { return classOf(err) == ClassViolation }
