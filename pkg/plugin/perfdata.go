package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// Perfdata is a single labeled performance measurement, serialized for
// downstream graphing tools as
//
//	'<label>'=<value><uom>;<warning>;<critical>;<minimum>;<maximum>
//
// The threshold and bound fields are stored as the text the operator
// supplied and echoed verbatim; they are never re-evaluated here.
type Perfdata struct {
	label    string
	value    string
	uom      string
	warning  string
	critical string
	minimum  string
	maximum  string
}

// PerfdataOption is a functional option for the optional Perfdata fields.
type PerfdataOption func(*Perfdata) error

// WithUOM sets the unit of measurement appended to the value.
func WithUOM(uom string) PerfdataOption {
	return func(p *Perfdata) error {
		if strings.ContainsAny(uom, ";'\n") {
			return fmt.Errorf("uom %q contains reserved characters", uom)
		}
		p.uom = uom
		return nil
	}
}

// WithWarning sets the warning threshold text echoed in the token.
func WithWarning(threshold string) PerfdataOption {
	return func(p *Perfdata) error {
		p.warning = threshold
		return nil
	}
}

// WithCritical sets the critical threshold text echoed in the token.
func WithCritical(threshold string) PerfdataOption {
	return func(p *Perfdata) error {
		p.critical = threshold
		return nil
	}
}

// WithMinimum sets the minimum value, used by graphing tools for axis
// scaling.
func WithMinimum(v any) PerfdataOption {
	return func(p *Perfdata) error {
		p.minimum = formatValue(v)
		return nil
	}
}

// WithMaximum sets the maximum value, used by graphing tools for axis
// scaling.
func WithMaximum(v any) PerfdataOption {
	return func(p *Perfdata) error {
		p.maximum = formatValue(v)
		return nil
	}
}

// NewPerfdata creates a performance data entry. The label must be
// non-empty and free of the delimiter characters used by the
// serialization format (quote, semicolon, equals sign, newline).
func NewPerfdata(label string, value any, opts ...PerfdataOption) (*Perfdata, error) {
	if label == "" {
		return nil, fmt.Errorf("plugin: perfdata label must not be empty")
	}
	if strings.ContainsAny(label, "';=\n") {
		return nil, fmt.Errorf("plugin: perfdata label %q contains reserved characters", label)
	}

	p := &Perfdata{
		label: label,
		value: formatValue(value),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("plugin: perfdata %q: %w", label, err)
		}
	}

	return p, nil
}

// Label returns the perfdata label.
func (p *Perfdata) Label() string {
	return p.label
}

// String serializes the entry in the fixed field order. Absent optional
// fields render as empty strings between their semicolons.
func (p *Perfdata) String() string {
	return fmt.Sprintf("'%s'=%s%s;%s;%s;%s;%s",
		p.label, p.value, p.uom, p.warning, p.critical, p.minimum, p.maximum)
}

// formatValue renders a numeric-or-text value without the exponent or
// trailing-zero artifacts of naive float formatting.
func formatValue(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
