package plugin

import (
	"math"
	"testing"
)

func mustThreshold(t *testing.T, text string) *Threshold {
	t.Helper()
	th, err := NewThreshold(text)
	if err != nil {
		t.Fatalf("NewThreshold(%q) failed: %v", text, err)
	}
	return th
}

func TestThreshold_PlainNumber(t *testing.T) {
	// "N" accepts [0, N]
	th := mustThreshold(t, "10")

	cases := []struct {
		value float64
		want  bool
	}{
		{-1, false},
		{0, true},
		{5, true},
		{10, true},
		{11, false},
	}
	for _, c := range cases {
		if got := th.Check(c.value); got != c.want {
			t.Errorf("Threshold(10).Check(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestThreshold_Range(t *testing.T) {
	// "N:M" accepts [N, M], bounds inclusive
	th := mustThreshold(t, "10:20")

	cases := []struct {
		value float64
		want  bool
	}{
		{10, true},
		{20, true},
		{15, true},
		{9, false},
		{21, false},
	}
	for _, c := range cases {
		if got := th.Check(c.value); got != c.want {
			t.Errorf("Threshold(10:20).Check(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestThreshold_OpenLowerBound(t *testing.T) {
	// "~:N" accepts (-inf, N]
	th := mustThreshold(t, "~:10")

	if !th.Check(-1) {
		t.Error("Threshold(~:10).Check(-1) should accept")
	}
	if !th.Check(-1e9) {
		t.Error("Threshold(~:10).Check(-1e9) should accept")
	}
	if !th.Check(10) {
		t.Error("Threshold(~:10).Check(10) should accept")
	}
	if th.Check(11) {
		t.Error("Threshold(~:10).Check(11) should reject")
	}
}

func TestThreshold_OpenUpperBound(t *testing.T) {
	// "N:" accepts [N, +inf)
	th := mustThreshold(t, "10:")

	if th.Check(9) {
		t.Error("Threshold(10:).Check(9) should reject")
	}
	if !th.Check(10) {
		t.Error("Threshold(10:).Check(10) should accept")
	}
	if !th.Check(1e9) {
		t.Error("Threshold(10:).Check(1e9) should accept")
	}
}

func TestThreshold_Negated(t *testing.T) {
	// "@10:20" forbids [10, 20], boundaries included in the forbidden zone
	th := mustThreshold(t, "@10:20")

	cases := []struct {
		value float64
		want  bool
	}{
		{10, false},
		{20, false},
		{15, false},
		{9, true},
		{21, true},
	}
	for _, c := range cases {
		if got := th.Check(c.value); got != c.want {
			t.Errorf("Threshold(@10:20).Check(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestThreshold_NegatedOpenEnd(t *testing.T) {
	// "@N:" resolves bounds first ([N, +inf)), then negates membership.
	th := mustThreshold(t, "@10:")

	if th.Check(10) {
		t.Error("Threshold(@10:).Check(10) should reject (boundary in forbidden zone)")
	}
	if th.Check(1e9) {
		t.Error("Threshold(@10:).Check(1e9) should reject")
	}
	if !th.Check(9) {
		t.Error("Threshold(@10:).Check(9) should accept")
	}
}

func TestThreshold_EmptyStartBeforeColon(t *testing.T) {
	// ":10" keeps the default lower bound of 0; only '~' yields -inf.
	th := mustThreshold(t, ":10")

	if th.Check(-1) {
		t.Error("Threshold(:10).Check(-1) should reject")
	}
	if !th.Check(0) {
		t.Error("Threshold(:10).Check(0) should accept")
	}
	if !th.Check(10) {
		t.Error("Threshold(:10).Check(10) should accept")
	}
}

func TestThreshold_NegativeBounds(t *testing.T) {
	th := mustThreshold(t, "-20:-10")

	if !th.Check(-15) {
		t.Error("Threshold(-20:-10).Check(-15) should accept")
	}
	if th.Check(-9) {
		t.Error("Threshold(-20:-10).Check(-9) should reject")
	}
	if th.Check(-21) {
		t.Error("Threshold(-20:-10).Check(-21) should reject")
	}
}

func TestThreshold_DecimalBounds(t *testing.T) {
	th := mustThreshold(t, "0.5:1.5")

	if !th.Check(1.0) {
		t.Error("Threshold(0.5:1.5).Check(1.0) should accept")
	}
	if th.Check(1.6) {
		t.Error("Threshold(0.5:1.5).Check(1.6) should reject")
	}
}

func TestThreshold_FullyOpen(t *testing.T) {
	// "~:" has an explicit start token, so it is valid and accepts everything.
	th := mustThreshold(t, "~:")

	for _, v := range []float64{-1e12, 0, 1e12} {
		if !th.Check(v) {
			t.Errorf("Threshold(~:).Check(%v) should accept", v)
		}
	}
}

func TestNewThreshold_Invalid(t *testing.T) {
	invalid := []string{
		"helloworld",
		"10:2", // upper below lower
		"",
		":",
		"@",
		"@:",
		"1:2:3",
		"a:b",
		"10:~",  // '~' is only a start token
		"inf",   // only '~' spells an infinite bound
		"nan:1",
	}
	for _, text := range invalid {
		if _, err := NewThreshold(text); err == nil {
			t.Errorf("NewThreshold(%q) should fail", text)
		}
	}
}

func TestThreshold_StringEchoesInput(t *testing.T) {
	for _, text := range []string{"10", "@10:20", "~:10", ":5"} {
		th := mustThreshold(t, text)
		if th.String() != text {
			t.Errorf("Threshold(%q).String() = %q", text, th.String())
		}
	}
}

func TestThreshold_Bounds(t *testing.T) {
	th := mustThreshold(t, "~:10")
	if !math.IsInf(th.min, -1) {
		t.Errorf("expected -inf lower bound, got %v", th.min)
	}
	if th.max != 10 {
		t.Errorf("expected upper bound 10, got %v", th.max)
	}

	th = mustThreshold(t, "10")
	if th.min != 0 {
		t.Errorf("expected lower bound 0, got %v", th.min)
	}
}

func TestCheckThreshold_OK(t *testing.T) {
	code, err := CheckThreshold(15, "10:20", "0:40")
	if err != nil {
		t.Fatalf("CheckThreshold failed: %v", err)
	}
	if code != OK {
		t.Errorf("expected OK, got %v", code)
	}
}

func TestCheckThreshold_CriticalDominates(t *testing.T) {
	// 50 violates both ranges; critical must win without evaluating warning.
	code, err := CheckThreshold(50, "10:20", "0:40")
	if err != nil {
		t.Fatalf("CheckThreshold failed: %v", err)
	}
	if code != Critical {
		t.Errorf("expected CRITICAL, got %v", code)
	}
}

func TestCheckThreshold_Warning(t *testing.T) {
	code, err := CheckThreshold(30, "10:20", "0:40")
	if err != nil {
		t.Fatalf("CheckThreshold failed: %v", err)
	}
	if code != Warning {
		t.Errorf("expected WARNING, got %v", code)
	}
}

func TestCheckThreshold_AbsentRanges(t *testing.T) {
	code, err := CheckThreshold(1e9, "", "")
	if err != nil {
		t.Fatalf("CheckThreshold failed: %v", err)
	}
	if code != OK {
		t.Errorf("expected OK with no ranges, got %v", code)
	}
}

func TestCheckThreshold_BadExpression(t *testing.T) {
	if _, err := CheckThreshold(1, "helloworld", ""); err == nil {
		t.Error("expected error for bad warning expression")
	}
	if _, err := CheckThreshold(1, "", "10:2"); err == nil {
		t.Error("expected error for inverted critical expression")
	}
}

func TestCheckThreshold_LazyParsing(t *testing.T) {
	// a critical rejection returns before the warning text is parsed
	code, err := CheckThreshold(50, "helloworld", "0:40")
	if err != nil {
		t.Fatalf("CheckThreshold should not parse warning after critical rejection: %v", err)
	}
	if code != Critical {
		t.Errorf("expected CRITICAL, got %v", code)
	}
}

func TestCheckBounds(t *testing.T) {
	warn := mustThreshold(t, "10:20")
	crit := mustThreshold(t, "0:40")

	if code := CheckBounds(15, warn, crit); code != OK {
		t.Errorf("expected OK, got %v", code)
	}
	if code := CheckBounds(50, warn, crit); code != Critical {
		t.Errorf("expected CRITICAL, got %v", code)
	}
	if code := CheckBounds(25, warn, crit); code != Warning {
		t.Errorf("expected WARNING, got %v", code)
	}
	if code := CheckBounds(50, nil, nil); code != OK {
		t.Errorf("expected OK with nil thresholds, got %v", code)
	}
}
