package plugin

// Result captures one evaluated (severity, message) pair contributed
// during a probe run. Results are appended to the plugin's ledger and
// never mutated afterwards.
type Result struct {
	// Severity is the classification of this evaluation step.
	Severity Severity

	// Message is a short human-readable description. May be empty;
	// empty messages are skipped during message composition.
	Message string
}
