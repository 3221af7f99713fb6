package orrery

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-zoom", "after-zoom"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Screenshot("a")
	e.Screenshot("b")
	if len(e.shots) != 2 || e.shots[0] != "a" || e.shots[1] != "b" {
		t.Errorf("queue = %v, want [a b]", e.shots)
	}
}

func TestScriptScreenshotStep(t *testing.T) {
	r, err := LoadTestScript([]byte("steps:\n  - action: screenshot\n    label: intro\n"))
	if err != nil {
		t.Fatal(err)
	}
	e := newTestEngine(t, nil)
	if err := e.Mount(nil); err != nil {
		t.Fatal(err)
	}
	e.SetTestRunner(r)
	e.Step(frame)
	if len(e.shots) != 1 || e.shots[0] != "intro" {
		t.Errorf("queue = %v", e.shots)
	}
	if !r.Done() {
		t.Error("runner not done")
	}
}
