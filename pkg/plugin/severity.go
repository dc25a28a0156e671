package plugin

// Severity is the outcome classification of a probe run or of a single
// evaluation step. The numeric value doubles as the process exit code.
type Severity int

const (
	// OK means the measured value is within all acceptable ranges.
	OK Severity = iota

	// Warning means the warning range rejected the value.
	Warning

	// Critical means the critical range rejected the value.
	Critical

	// Unknown means nothing could be determined: no results were
	// recorded, a fault occurred, or the deadline fired.
	Unknown
)

var severityNames = [...]string{"OK", "WARNING", "CRITICAL", "UNKNOWN"}

// String returns the wire name of the severity as used in the report
// line. Values outside the defined set render as UNKNOWN.
func (s Severity) String() string {
	if s < OK || s > Unknown {
		return severityNames[Unknown]
	}
	return severityNames[s]
}
