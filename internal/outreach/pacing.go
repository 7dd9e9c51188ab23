package outreach

import (
	"math/rand"
	"time"
)

// Default pacing window between page interactions.
const (
	DefaultMinDelay = 3 * time.Second
	DefaultMaxDelay = 5 * time.Second
)

// Pacer inserts a uniformly random delay between page interactions so the
// account's activity has no fixed rhythm.
type Pacer struct {
	Min   time.Duration
	Max   time.Duration
	Sleep func(time.Duration)
	// Float returns a value in [0,1); defaults to math/rand.
	Float func() float64
}

// NewPacer creates a pacer over [lo,hi]. A reversed window is swapped.
func NewPacer(lo, hi time.Duration) *Pacer {
	if hi < lo {
		lo, hi = hi, lo
	}
	return &Pacer{Min: lo, Max: hi, Sleep: time.Sleep, Float: rand.Float64}
}

// Delay draws the next delay.
func (p *Pacer) Delay() time.Duration {
	span := p.Max - p.Min
	if span <= 0 {
		return p.Min
	}
	f := rand.Float64
	if p.Float != nil {
		f = p.Float
	}
	return p.Min + time.Duration(f()*float64(span))
}

// Wait sleeps for the next delay. It ignores cancellation; an
// interrupt is honoured between profiles, never in the middle of one.
func (p *Pacer) Wait() {
	sleep := time.Sleep
	if p.Sleep != nil {
		sleep = p.Sleep
	}
	sleep(p.Delay())
}
