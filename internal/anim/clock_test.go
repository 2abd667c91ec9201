package anim

import (
	"testing"
	"time"
)

func testAnimation(delays ...time.Duration) *Animation {
	a := &Animation{}
	for _, d := range delays {
		a.Frames = append(a.Frames, Frame{Delay: d})
	}
	return a
}

func TestClockLoops(t *testing.T) {
	c := NewClock(testAnimation(time.Second, time.Second, time.Second), 100)
	var seen []int
	for i := 0; i < 7; i++ {
		seen = append(seen, c.Advance())
	}
	want := []int{1, 2, 0, 1, 2, 0, 1}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("Advance sequence = %v, want %v", seen, want)
		}
	}
}

func TestClockDelayScalesWithSpeed(t *testing.T) {
	c := NewClock(testAnimation(200*time.Millisecond), 100)
	if got := c.Delay(); got != 200*time.Millisecond {
		t.Fatalf("Delay at 100%% = %v", got)
	}
	c.SetSpeed(200)
	if got := c.Delay(); got != 100*time.Millisecond {
		t.Fatalf("Delay at 200%% = %v", got)
	}
	c.SetSpeed(50)
	if got := c.Delay(); got != 400*time.Millisecond {
		t.Fatalf("Delay at 50%% = %v", got)
	}
	c.SetSpeed(0)
	if c.Speed() != 1 {
		t.Fatalf("Speed() after SetSpeed(0) = %d, want 1", c.Speed())
	}
}

func TestScaleDelayFloor(t *testing.T) {
	if got := ScaleDelay(20*time.Millisecond, 1000); got != MinFrameDelay {
		t.Fatalf("ScaleDelay = %v, want %v", got, MinFrameDelay)
	}
}

func TestClockEmpty(t *testing.T) {
	c := NewClock(&Animation{}, 100)
	if c.Advance() != 0 || c.Delay() != DefaultFrameDelay {
		t.Fatalf("empty clock misbehaves")
	}
}
