package plugin

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Threshold is a parsed acceptable-value range in the Nagios plugin
// guidelines syntax:
//
//	['@'] [ (('~' | number) ':') ] [number]
//
// Examples: "10" accepts [0, 10], "10:20" accepts [10, 20], "~:10"
// accepts (-inf, 10], "10:" accepts [10, +inf). A leading '@' turns the
// range into a forbidden zone: the same inclusive bounds, inverted
// polarity.
//
// A Threshold is immutable once constructed.
type Threshold struct {
	raw    string
	min    float64
	max    float64
	inside bool
}

// NewThreshold parses a threshold expression. It fails if the text does
// not match the grammar, if neither a start nor an end value is present,
// or if the resolved upper bound is below the lower bound.
func NewThreshold(text string) (*Threshold, error) {
	t := &Threshold{
		raw: text,
		min: 0,
		max: math.Inf(1),
	}

	s := text
	if strings.HasPrefix(s, "@") {
		t.inside = true
		s = s[1:]
	}

	start, end := "", s
	if i := strings.Index(s, ":"); i >= 0 {
		start, end = s[:i], s[i+1:]
	}

	// An expression with no start token and no end value carries no
	// information at all.
	if start == "" && end == "" {
		return nil, fmt.Errorf("plugin: empty threshold %q", text)
	}

	// An empty start before ':' keeps the default lower bound of 0;
	// only an explicit '~' yields -inf.
	switch {
	case start == "~":
		t.min = math.Inf(-1)
	case start != "":
		v, err := parseBound(start)
		if err != nil {
			return nil, fmt.Errorf("plugin: bad threshold %q: %w", text, err)
		}
		t.min = v
	}

	if end != "" {
		v, err := parseBound(end)
		if err != nil {
			return nil, fmt.Errorf("plugin: bad threshold %q: %w", text, err)
		}
		t.max = v
	}

	if t.max < t.min {
		return nil, fmt.Errorf("plugin: bad threshold %q: upper bound %v below lower bound %v", text, t.max, t.min)
	}

	return t, nil
}

// parseBound parses a single numeric bound. Only finite values are
// accepted; '~' is the sole spelling of an infinite bound.
func parseBound(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bound %q", s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid bound %q", s)
	}
	return v, nil
}

// Check reports whether value is acceptable under this threshold, i.e.
// whether it does NOT trigger the associated severity. Both bound
// comparisons are inclusive; a '@' prefix only flips the polarity.
func (t *Threshold) Check(value float64) bool {
	within := value >= t.min && value <= t.max
	if t.inside {
		return !within
	}
	return within
}

// String returns the original expression text, so that a threshold used
// in perfdata echoes exactly what the operator supplied.
func (t *Threshold) String() string {
	return t.raw
}

// CheckThreshold classifies a value against optional warning and
// critical threshold expressions. An empty expression means "not
// supplied" and is skipped. The critical range is evaluated first: when
// it rejects the value the result is Critical regardless of the warning
// range, so the worse severity always dominates.
//
// Expressions are parsed lazily in evaluation order: a critical
// rejection returns before the warning text is looked at. Parse
// failures are returned to the caller.
func CheckThreshold(value float64, warning, critical string) (Severity, error) {
	if critical != "" {
		critT, err := NewThreshold(critical)
		if err != nil {
			return Unknown, err
		}
		if !critT.Check(value) {
			return Critical, nil
		}
	}
	if warning != "" {
		warnT, err := NewThreshold(warning)
		if err != nil {
			return Unknown, err
		}
		if !warnT.Check(value) {
			return Warning, nil
		}
	}
	return OK, nil
}

// CheckBounds is the pre-parsed form of CheckThreshold. Nil thresholds
// are skipped.
func CheckBounds(value float64, warning, critical *Threshold) Severity {
	if critical != nil && !critical.Check(value) {
		return Critical
	}
	if warning != nil && !warning.Check(value) {
		return Warning
	}
	return OK
}
