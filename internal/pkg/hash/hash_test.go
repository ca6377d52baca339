package hash

import (
	"testing"
	"time"
)

func TestSHA256String(t *testing.T) {
	// Known vector for "abc".
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256String("abc"); got != want {
		t.Errorf("SHA256String(abc) = %s, want %s", got, want)
	}
}

func TestSHA256Short(t *testing.T) {
	full := SHA256String("hello")

	if got := SHA256Short([]byte("hello"), 16); got != full[:16] {
		t.Errorf("SHA256Short() = %s, want %s", got, full[:16])
	}

	// n larger than the hash returns the full hash.
	if got := SHA256Short([]byte("hello"), 100); got != full {
		t.Errorf("SHA256Short(n=100) = %s, want full hash", got)
	}
}

func TestRunID(t *testing.T) {
	now := time.Now()

	a := RunID("truth.tsv", "pred.tsv", "supervised", now)
	if len(a) != 16 {
		t.Errorf("RunID length = %d, want 16", len(a))
	}

	// Same inputs, same instant: deterministic.
	if b := RunID("truth.tsv", "pred.tsv", "supervised", now); b != a {
		t.Errorf("RunID not deterministic: %s vs %s", a, b)
	}

	// Different start time: different ID.
	if c := RunID("truth.tsv", "pred.tsv", "supervised", now.Add(time.Nanosecond)); c == a {
		t.Error("RunID should differ for different start times")
	}

	// Different phase: different ID.
	if d := RunID("truth.tsv", "pred.tsv", "final", now); d == a {
		t.Error("RunID should differ for different phases")
	}
}
