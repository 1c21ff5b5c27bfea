package engine

import (
	"time"
)

// Default safety margin kept in reserve from every time budget.
const defaultSafetyMargin = 150 * time.Millisecond

// TimeManager turns a per-move time budget into a hard deadline.
type TimeManager struct {
	startTime time.Time
	deadline  time.Time
	budget    time.Duration
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a move with the given budget. The deadline
// keeps back margin, or 15% of the budget when that is smaller, so the
// engine answers before the caller's own clock runs out.
func (tm *TimeManager) Init(budget, margin time.Duration) {
	tm.startTime = time.Now()
	tm.budget = budget

	reserve := budget * 15 / 100
	if margin < reserve {
		reserve = margin
	}
	if reserve < 0 {
		reserve = 0
	}
	tm.deadline = tm.startTime.Add(budget - reserve)
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Deadline returns the absolute time the search must stop by.
func (tm *TimeManager) Deadline() time.Time {
	return tm.deadline
}

// Remaining returns the time left before the deadline.
func (tm *TimeManager) Remaining() time.Duration {
	return time.Until(tm.deadline)
}

// ShouldStop returns true once the deadline has passed.
func (tm *TimeManager) ShouldStop() bool {
	return !time.Now().Before(tm.deadline)
}

// WorthDeepening reports whether another iteration is likely to finish.
// Each depth costs several times the previous one, so once the last
// iteration took longer than the time remaining a new one would almost
// certainly be thrown away.
func (tm *TimeManager) WorthDeepening(lastIteration time.Duration) bool {
	return lastIteration < tm.Remaining()
}
