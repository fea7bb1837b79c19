package host

import (
	"sync"
	"time"
)

// Clock creates the tickers that drive the round countdown.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// countdown is the one-second ticker of a single round.
// Stop may be called any number of times; only the first has an effect.
type countdown struct {
	ticker Ticker
	once   sync.Once
}

func startCountdown(c Clock) *countdown {
	return &countdown{ticker: c.NewTicker(time.Second)}
}

// C returns the tick channel, or nil (blocks forever) when there is no countdown.
func (cd *countdown) C() <-chan time.Time {
	if cd == nil {
		return nil
	}
	return cd.ticker.C()
}

func (cd *countdown) Stop() {
	if cd == nil {
		return
	}
	cd.once.Do(cd.ticker.Stop)
}
