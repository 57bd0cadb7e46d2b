package clock

import (
	"testing"
	"time"
)

func TestFakeAdvanceFiresDueTimers(t *testing.T) {
	c := NewFake()

	fired := []string{}
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "c") })

	c.Advance(3 * time.Second)

	if len(fired) != 2 || fired[0] != "a" || fired[1] != "b" {
		t.Errorf("fired = %v, want [a b]", fired)
	}

	c.Advance(2 * time.Second)
	if len(fired) != 3 || fired[2] != "c" {
		t.Errorf("fired = %v, want [a b c]", fired)
	}
}

func TestFakeClockReadsDeadlineDuringCallback(t *testing.T) {
	c := NewFake()
	start := c.Now()

	var at time.Time
	c.AfterFunc(time.Second, func() { at = c.Now() })
	c.Advance(10 * time.Second)

	if got := at.Sub(start); got != time.Second {
		t.Errorf("callback saw clock at +%v, want +1s", got)
	}
	if got := c.Now().Sub(start); got != 10*time.Second {
		t.Errorf("clock ended at +%v, want +10s", got)
	}
}

func TestTimerStop(t *testing.T) {
	c := NewFake()

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop should report the timer was pending")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("Stopped timer should not fire")
	}
	if timer.Stop() {
		t.Error("Second Stop should report not pending")
	}
}

func TestTimerReset(t *testing.T) {
	c := NewFake()

	count := 0
	timer := c.AfterFunc(time.Second, func() { count++ })

	// Push the deadline out before it fires
	timer.Reset(5 * time.Second)
	c.Advance(2 * time.Second)
	if count != 0 {
		t.Error("Timer should not fire before the reset deadline")
	}

	c.Advance(3 * time.Second)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	// Reset re-arms a fired timer
	timer.Reset(time.Second)
	c.Advance(time.Second)
	if count != 2 {
		t.Errorf("count = %d, want 2 after re-arm", count)
	}
}

func TestCallbackMayScheduleTimer(t *testing.T) {
	c := NewFake()

	fired := false
	c.AfterFunc(time.Second, func() {
		c.AfterFunc(time.Second, func() { fired = true })
	})

	// The chained timer lands inside the advanced window
	c.Advance(3 * time.Second)
	if !fired {
		t.Error("Timer scheduled from a callback should fire within the same Advance")
	}
}
