package budget

import (
	"time"

	"catalog-sync/core/clock"
)

// Budget tracks elapsed wall-clock time against a ceiling.
// A non-positive ceiling means the budget never runs out.
type Budget struct {
	clock     clock.Clock
	startedAt time.Time
	ceiling   time.Duration
}

// New starts a budget now.
func New(c clock.Clock, ceiling time.Duration) *Budget {
	if c == nil {
		c = clock.System{}
	}
	return &Budget{
		clock:     c,
		startedAt: c.Now(),
		ceiling:   ceiling,
	}
}

// NewFromMillis starts a budget with a ceiling expressed in milliseconds.
func NewFromMillis(c clock.Clock, ceilingMs int) *Budget {
	return New(c, time.Duration(ceilingMs)*time.Millisecond)
}

// Unlimited returns a budget that is never exceeded.
func Unlimited() *Budget {
	return New(clock.System{}, 0)
}

// StartedAt returns the creation time.
func (b *Budget) StartedAt() time.Time {
	return b.startedAt
}

// Ceiling returns the configured ceiling.
func (b *Budget) Ceiling() time.Duration {
	return b.ceiling
}

// Elapsed returns the time spent since the budget started.
func (b *Budget) Elapsed() time.Duration {
	return b.clock.Now().Sub(b.startedAt)
}

// Remaining returns the time left, never negative.
// Unlimited budgets report the maximum duration.
func (b *Budget) Remaining() time.Duration {
	if b.ceiling <= 0 {
		return time.Duration(1<<63 - 1)
	}
	left := b.ceiling - b.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// RemainingMs returns Remaining in whole milliseconds.
func (b *Budget) RemainingMs() int64 {
	return b.Remaining().Milliseconds()
}

// Exceeded reports whether the ceiling has been reached.
func (b *Budget) Exceeded() bool {
	if b.ceiling <= 0 {
		return false
	}
	return b.Remaining() == 0
}
