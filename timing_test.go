package docproc

import (
	"errors"
	"testing"
	"time"
)

func TestTimed(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	ticks := 0
	clock := func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * 100 * time.Millisecond)
	}

	st, err := timed("render ledger page", clock, func() error { return nil })
	if err != nil {
		t.Fatalf("timed() error = %v", err)
	}
	if st.Stage != "render ledger page" {
		t.Errorf("Stage = %q", st.Stage)
	}
	if st.Duration != 100*time.Millisecond {
		t.Errorf("Duration = %v, want 100ms", st.Duration)
	}
}

func TestTimedPropagatesError(t *testing.T) {
	sentinel := errors.New("stage failed")
	st, err := timed("merge documents", time.Now, func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("timed() error = %v, want %v", err, sentinel)
	}
	if st.Stage != "merge documents" {
		t.Errorf("Stage = %q", st.Stage)
	}
}
