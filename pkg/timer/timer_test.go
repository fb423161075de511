package timer

import (
	"testing"
	"time"
)

func TestSystemTimer(t *testing.T) {
	var tm SystemTimer
	before := time.Now()
	got := tm.Now()
	if got.Before(before.Add(-time.Second)) {
		t.Errorf("Now() = %v, too far behind %v", got, before)
	}
	tm.Stop() // no-op
}

func TestCachedTimer(t *testing.T) {
	tm := NewCachedTimer(5 * time.Millisecond)
	defer tm.Stop()

	first := tm.Now()
	time.Sleep(30 * time.Millisecond)
	second := tm.Now()

	if !second.After(first) {
		t.Errorf("cached time did not advance: first=%v second=%v", first, second)
	}
}

func TestCachedTimer_StopTerminates(t *testing.T) {
	tm := NewCachedTimer(time.Millisecond)
	tm.Stop()
	// Stop must be idempotent-safe to observe: Now still readable after Stop.
	_ = tm.Now()
}
