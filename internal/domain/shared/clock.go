package shared

import "time"

// Clock supplies the current instant. Every "now" read in the domain goes through one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a wall clock reporting times in loc (time.Local when nil)
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{loc: loc}
}

// Now implements Clock
func (c SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

// Now implements Clock
func (c FixedClock) Now() time.Time {
	return c.T
}
