package engine

import (
	"testing"
	"time"
)

func TestTimeManagerReserve(t *testing.T) {
	tests := []struct {
		budget, margin time.Duration
		want           time.Duration
	}{
		{2 * time.Second, 150 * time.Millisecond, 1850 * time.Millisecond},
		{100 * time.Millisecond, 150 * time.Millisecond, 85 * time.Millisecond},
		{time.Second, 0, time.Second},
	}

	for _, tt := range tests {
		tm := NewTimeManager()
		tm.Init(tt.budget, tt.margin)
		if got := tm.Deadline().Sub(tm.startTime); got != tt.want {
			t.Errorf("Init(%v, %v): deadline after %v, want %v", tt.budget, tt.margin, got, tt.want)
		}
	}
}

func TestTimeManagerStop(t *testing.T) {
	tm := NewTimeManager()
	tm.Init(time.Hour, 0)
	if tm.ShouldStop() {
		t.Error("stopped with an hour left")
	}
	if !tm.WorthDeepening(time.Second) {
		t.Error("refused to deepen with an hour left")
	}
	if tm.WorthDeepening(2 * time.Hour) {
		t.Error("deepening after an iteration longer than the remaining time")
	}

	tm.Init(time.Nanosecond, 0)
	time.Sleep(time.Millisecond)
	if !tm.ShouldStop() {
		t.Error("did not stop after the deadline")
	}
	if tm.Remaining() > 0 {
		t.Errorf("remaining %v after the deadline", tm.Remaining())
	}
}
