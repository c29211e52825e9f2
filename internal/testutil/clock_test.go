package testutil

import (
	"testing"
	"time"
)

func TestFixedClock_Pinned(t *testing.T) {
	base := time.Unix(1_700_000_000, 0).UTC()
	c := NewFixedClock(base)

	if got := c.Now(); !got.Equal(base) {
		t.Errorf("Now() = %v, want %v", got, base)
	}
	if got := c.Now(); !got.Equal(base) {
		t.Errorf("second Now() = %v, clock moved on its own", got)
	}
}

func TestFixedClock_Advance(t *testing.T) {
	base := time.Unix(1_700_000_000, 0).UTC()
	c := NewFixedClock(base)

	c.Advance(90 * time.Second)
	want := base.Add(90 * time.Second)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFixedClock_Set(t *testing.T) {
	c := NewFixedClock(time.Unix(0, 0))
	want := time.Unix(1_800_000_000, 0).UTC()

	c.Set(want)
	if got := c.Now(); !got.Equal(want) {
		t.Errorf("Now() after Set = %v, want %v", got, want)
	}
}
