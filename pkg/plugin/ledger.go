package plugin

import (
	"strings"
)

// DefaultJoiner is the separator used when composing the headline
// message from multiple results.
const DefaultJoiner = ", "

// Ledger accumulates the results, performance data and extended data of
// one probe run, in insertion order. Insertion order is significant for
// message and perfdata composition; it does not affect the aggregate
// severity. A Ledger is scoped to a single run and never reused.
type Ledger struct {
	results  []Result
	perfdata []*Perfdata
	extdata  []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddResult appends one evaluated (severity, message) pair.
func (l *Ledger) AddResult(severity Severity, message string) {
	l.results = append(l.results, Result{Severity: severity, Message: message})
}

// AddPerfdata appends a performance data entry.
func (l *Ledger) AddPerfdata(pd *Perfdata) {
	l.perfdata = append(l.perfdata, pd)
}

// AddExtData appends one free-form extended data line.
func (l *Ledger) AddExtData(line string) {
	l.extdata = append(l.extdata, line)
}

// Results returns the recorded results in insertion order.
func (l *Ledger) Results() []Result {
	return l.results
}

// Code computes the aggregate severity: the worst of all recorded
// OK/WARNING/CRITICAL results. With no results, or only UNKNOWN ones,
// the aggregate is UNKNOWN. CRITICAL dominates WARNING dominates OK;
// insertion order is irrelevant.
func (l *Ledger) Code() Severity {
	code := Unknown
	for _, r := range l.results {
		if code == Unknown || (r.Severity < Unknown && r.Severity > code) {
			code = r.Severity
		}
	}
	return code
}

// Message concatenates, in insertion order, the messages of every
// result whose severity is in levels, skipping empty messages. A nil
// levels slice selects OK, WARNING and CRITICAL. An empty joiner means
// DefaultJoiner.
func (l *Ledger) Message(levels []Severity, joiner string) string {
	if joiner == "" {
		joiner = DefaultJoiner
	}
	if levels == nil {
		levels = []Severity{OK, Warning, Critical}
	}

	wanted := make(map[Severity]bool, len(levels))
	for _, lv := range levels {
		wanted[lv] = true
	}

	var messages []string
	for _, r := range l.results {
		if wanted[r.Severity] && r.Message != "" {
			messages = append(messages, r.Message)
		}
	}
	return strings.Join(messages, joiner)
}

// Perfdata serializes every recorded performance data entry in
// insertion order, space-joined.
func (l *Ledger) Perfdata() string {
	tokens := make([]string, len(l.perfdata))
	for i, pd := range l.perfdata {
		tokens[i] = pd.String()
	}
	return strings.Join(tokens, " ")
}

// ExtData newline-joins every recorded extended data line.
func (l *Ledger) ExtData() string {
	return strings.Join(l.extdata, "\n")
}
