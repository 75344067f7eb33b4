package match

import "testing"

func TestKey_NormalizesAccentsCaseAndSpacing(t *testing.T) {
	configured := New("Österreich", "Island")
	reported := New("  osterreich ", "ISLAND")

	if configured.Key() != reported.Key() {
		t.Fatalf("expected keys to correlate: %v vs %v", configured.Key(), reported.Key())
	}
}

func TestKey_DelimiterInNameDoesNotCollide(t *testing.T) {
	left := New("Real-Madrid", "Roma")
	right := New("Real", "Madrid-Roma")

	if left.String() != right.String() {
		t.Fatalf("test precondition: legacy identifiers should collide")
	}
	if left.Key() == right.Key() {
		t.Fatalf("structured keys must not collide: %v", left.Key())
	}
}

func TestMatch_LabelAndString(t *testing.T) {
	m := New("France", "Romania")
	if got := m.String(); got != "France-Romania" {
		t.Fatalf("unexpected identifier: %q", got)
	}
	if got := m.Label(); got != "France vs. Romania" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestIsFinishedStatus(t *testing.T) {
	cases := map[string]bool{
		"FINISHED":  true,
		" finished": true,
		"TIMED":     false,
		"IN_PLAY":   false,
		"":          false,
	}
	for status, want := range cases {
		if got := IsFinishedStatus(status); got != want {
			t.Fatalf("IsFinishedStatus(%q): got=%v want=%v", status, got, want)
		}
	}
}
