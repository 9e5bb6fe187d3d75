// Package countdown provides the periodic scheduler that drives a session's
// one-second ticks. The host owns it: it starts the countdown when the
// session arms its timer and stops it on pause, on end and on screen changes.
package countdown

import (
	"sync"
	"time"
)

// Countdown calls fn once per interval on its own goroutine until stopped.
type Countdown struct {
	interval time.Duration
	fn       func()

	mu       sync.Mutex
	stop     chan struct{}
	done     chan struct{}
	lastDone chan struct{}
}

// New returns a stopped countdown.
func New(interval time.Duration, fn func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{interval: interval, fn: fn}
}

// Start begins ticking. It is a no-op when already running.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.stop, c.done)
}

// Stop halts ticking without waiting for the goroutine, so it is safe to
// call from inside fn's receiver. A tick already in flight may still be
// delivered; use Wait to block until the goroutine has exited.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return
	}
	close(c.stop)
	c.lastDone = c.done
	c.stop, c.done = nil, nil
}

// Wait blocks until the goroutine of the last stopped run has exited.
func (c *Countdown) Wait() {
	c.mu.Lock()
	done := c.lastDone
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Exited reports, without blocking, whether the goroutine of the last
// stopped run has exited. A countdown that never ran has exited.
func (c *Countdown) Exited() bool {
	c.mu.Lock()
	done := c.lastDone
	c.mu.Unlock()
	if done == nil {
		return true
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// Running reports whether the countdown is ticking.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

func (c *Countdown) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			c.fn()
		}
	}
}
