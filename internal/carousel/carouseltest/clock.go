// Package carouseltest provides a hand-driven ticker for auto-advance tests.
package carouseltest

import (
	"sync"
	"time"

	"review_carousel/internal/carousel"
)

type Ticker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *Ticker) C() <-chan time.Time { return t.ch }

func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Clock hands out Tickers and remembers every one it created.
type Clock struct {
	mu      sync.Mutex
	tickers []*Ticker
	periods []time.Duration
}

func (c *Clock) NewTicker(d time.Duration) carousel.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &Ticker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	c.periods = append(c.periods, d)
	return t
}

// Created is the number of tickers handed out so far.
func (c *Clock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *Clock) Periods() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.periods...)
}

// Active returns the tickers that have not been stopped.
func (c *Clock) Active() []*Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*Ticker
	for _, t := range c.tickers {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// Fire delivers one tick to the only active ticker. It blocks until the
// carousel goroutine has received it and reports false when no single
// active ticker exists.
func (c *Clock) Fire() bool {
	active := c.Active()
	if len(active) != 1 {
		return false
	}
	select {
	case active[0].ch <- time.Now():
		return true
	case <-time.After(time.Second):
		return false
	}
}
