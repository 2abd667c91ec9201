package anim

import "time"

// MinFrameDelay bounds how fast any frame may be shown, whatever the speed.
const MinFrameDelay = 10 * time.Millisecond

// Clock walks the frames of an animation in a loop at a speed percentage.
// It holds no timer; the caller sleeps for Delay and then calls Advance.
type Clock struct {
	delays []time.Duration
	speed  int
	index  int
}

// NewClock returns a clock positioned on the first frame.
func NewClock(a *Animation, speed int) *Clock {
	delays := make([]time.Duration, len(a.Frames))
	for i, f := range a.Frames {
		delays[i] = f.Delay
	}
	c := &Clock{delays: delays}
	c.SetSpeed(speed)
	return c
}

// SetSpeed changes the playback rate; 100 is normal, 200 twice as fast.
// Values below 1 are treated as 1.
func (c *Clock) SetSpeed(speed int) {
	c.speed = max(speed, 1)
}

// Speed returns the current playback rate percentage.
func (c *Clock) Speed() int {
	return c.speed
}

// Index returns the current frame.
func (c *Clock) Index() int {
	return c.index
}

// Len returns the number of frames.
func (c *Clock) Len() int {
	return len(c.delays)
}

// Delay returns how long the current frame stays up at the current speed.
func (c *Clock) Delay() time.Duration {
	if len(c.delays) == 0 {
		return DefaultFrameDelay
	}
	return ScaleDelay(c.delays[c.index], c.speed)
}

// Advance moves to the next frame, wrapping to the first, and returns it.
func (c *Clock) Advance() int {
	if len(c.delays) == 0 {
		return 0
	}
	c.index = (c.index + 1) % len(c.delays)
	return c.index
}

// ScaleDelay converts a normal-speed delay to the delay at speed percent,
// never going below MinFrameDelay.
func ScaleDelay(d time.Duration, speed int) time.Duration {
	speed = max(speed, 1)
	return max(d*100/time.Duration(speed), MinFrameDelay)
}
