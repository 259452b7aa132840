// Package carousel holds the position of a review carousel and drives its
// auto-advance timer.
package carousel

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"review_carousel/internal/domain"
)

type Policy int

const (
	// Wrap moves modulo the review count.
	Wrap Policy = iota
	// Clamp stops at the first and last review.
	Clamp
)

func (p Policy) String() string {
	if p == Clamp {
		return "clamp"
	}
	return "wrap"
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap", "wrapping":
		return Wrap, nil
	case "clamp", "clamped":
		return Clamp, nil
	}
	return Wrap, fmt.Errorf("carousel: unknown navigation policy %q", s)
}

type State int

const (
	StateEmpty State = iota
	StateActive
)

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

var ErrClampAutoAdvance = errors.New("carousel: auto-advance requires the wrap policy")

type Option func(*Carousel)

func WithPolicy(p Policy) Option { return func(c *Carousel) { c.policy = p } }

// WithTicker replaces the ticker used for auto-advance.
func WithTicker(f TickerFunc) Option { return func(c *Carousel) { c.newTicker = f } }

// OnAdvance registers fn to run after every automatic step, on the timer
// goroutine. fn must not start or stop auto-advance.
func OnAdvance(fn func(index int)) Option { return func(c *Carousel) { c.onAdvance = fn } }

type Carousel struct {
	mu        sync.Mutex
	reviews   []domain.ReviewRecord
	index     int
	policy    Policy
	newTicker TickerFunc
	onAdvance func(int)

	interval time.Duration // non-zero while auto-advance is wanted
	timer    *autoTimer
}

func New(reviews []domain.ReviewRecord, opts ...Option) *Carousel {
	c := &Carousel{policy: Wrap, newTicker: NewStdTicker}
	for _, o := range opts {
		o(c)
	}
	c.Init(reviews)
	return c
}

// Init replaces the review list and rewinds to the first review.
func (c *Carousel) Init(reviews []domain.ReviewRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reviews = append([]domain.ReviewRecord(nil), reviews...)
	c.index = 0
}

func (c *Carousel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reviews) == 0 {
		return StateEmpty
	}
	return StateActive
}

func (c *Carousel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reviews)
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Policy() Policy { return c.policy }

// Reviews returns a copy of the review list.
func (c *Carousel) Reviews() []domain.ReviewRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ReviewRecord(nil), c.reviews...)
}

func (c *Carousel) Current() (domain.ReviewRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reviews) == 0 {
		return domain.ReviewRecord{}, false
	}
	return c.reviews[c.index], true
}

// Slide is the current review with its position.
type Slide struct {
	Review domain.ReviewRecord
	Index  int
	Total  int
}

// CurrentSlide reads review, index and count under one lock.
func (c *Carousel) CurrentSlide() (Slide, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reviews) == 0 {
		return Slide{}, false
	}
	return Slide{Review: c.reviews[c.index], Index: c.index, Total: len(c.reviews)}, true
}

func (c *Carousel) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepLocked(Forward)
	return c.index
}

func (c *Carousel) Previous() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepLocked(Backward)
	return c.index
}

// Manual is a user-initiated step: auto-advance is stopped, the step taken,
// and auto-advance restarted with a fresh period if it was running.
func (c *Carousel) Manual(dir Direction) int {
	c.mu.Lock()
	old := c.detachLocked()
	c.stepLocked(dir)
	if c.interval > 0 {
		c.timer = c.launchLocked(c.interval)
	}
	idx := c.index
	c.mu.Unlock()
	old.wait()
	return idx
}

// StartAutoAdvance steps forward every d. A running timer is replaced, so at
// most one is ever active.
func (c *Carousel) StartAutoAdvance(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("carousel: auto-advance interval must be positive, got %s", d)
	}
	c.mu.Lock()
	if c.policy == Clamp {
		c.mu.Unlock()
		return ErrClampAutoAdvance
	}
	old := c.detachLocked()
	c.interval = d
	c.timer = c.launchLocked(d)
	c.mu.Unlock()
	old.wait()
	return nil
}

// StopAutoAdvance cancels the timer and waits for its goroutine. No-op when idle.
func (c *Carousel) StopAutoAdvance() {
	c.mu.Lock()
	old := c.detachLocked()
	c.interval = 0
	c.mu.Unlock()
	old.wait()
}

func (c *Carousel) AutoAdvancing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// ---- internals ----

func (c *Carousel) stepLocked(dir Direction) {
	n := len(c.reviews)
	if n == 0 {
		return
	}
	i := c.index + int(dir)
	if c.policy == Clamp {
		c.index = min(max(i, 0), n-1)
		return
	}
	c.index = ((i % n) + n) % n
}

type autoTimer struct {
	t      Ticker
	done   chan struct{}
	exited chan struct{}
}

func (at *autoTimer) wait() {
	if at != nil {
		<-at.exited
	}
}

func (c *Carousel) launchLocked(d time.Duration) *autoTimer {
	at := &autoTimer{t: c.newTicker(d), done: make(chan struct{}), exited: make(chan struct{})}
	go c.run(at)
	return at
}

func (c *Carousel) detachLocked() *autoTimer {
	at := c.timer
	if at == nil {
		return nil
	}
	c.timer = nil
	close(at.done)
	at.t.Stop()
	return at
}

func (c *Carousel) run(at *autoTimer) {
	defer close(at.exited)
	for {
		select {
		case <-at.done:
			return
		case <-at.t.C():
			idx, ok := c.tick(at)
			if ok && c.onAdvance != nil {
				c.onAdvance(idx)
			}
		}
	}
}

// tick advances unless at has been replaced or the carousel is empty.
func (c *Carousel) tick(at *autoTimer) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != at || len(c.reviews) == 0 {
		return c.index, false
	}
	c.stepLocked(Forward)
	return c.index, true
}
