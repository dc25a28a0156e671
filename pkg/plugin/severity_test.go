package plugin

import (
	"testing"
)

func TestSeverity_String(t *testing.T) {
	cases := []struct {
		severity Severity
		want     string
	}{
		{OK, "OK"},
		{Warning, "WARNING"},
		{Critical, "CRITICAL"},
		{Unknown, "UNKNOWN"},
	}
	for _, c := range cases {
		if got := c.severity.String(); got != c.want {
			t.Errorf("Severity(%d).String() = %q, want %q", c.severity, got, c.want)
		}
	}
}

func TestSeverity_StringOutOfRange(t *testing.T) {
	if got := Severity(42).String(); got != "UNKNOWN" {
		t.Errorf("out-of-range severity should render UNKNOWN, got %q", got)
	}
	if got := Severity(-1).String(); got != "UNKNOWN" {
		t.Errorf("negative severity should render UNKNOWN, got %q", got)
	}
}

func TestSeverity_ExitCodes(t *testing.T) {
	// the numeric values are the wire protocol, they must never drift
	if OK != 0 || Warning != 1 || Critical != 2 || Unknown != 3 {
		t.Errorf("severity values changed: OK=%d WARNING=%d CRITICAL=%d UNKNOWN=%d",
			OK, Warning, Critical, Unknown)
	}
}
