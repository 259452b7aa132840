package carousel

import "time"

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker { return stdTicker{t: time.NewTicker(d)} }
