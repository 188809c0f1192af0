package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+6", 6*3600)
	now := NewSystemClock(loc).Now()
	assert.Equal(t, loc, now.Location())
}

func TestFixedClock(t *testing.T) {
	ts := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	c := FixedClock{T: ts}
	assert.Equal(t, ts, c.Now())
	assert.Equal(t, ts, c.Now())
}
