package session

import (
	"sync"
	"time"
)

// Timer is the countdown handle owned by a running session.
type Timer interface {
	Stop()
}

// TimerFactory starts a periodic timer for the session with the given ID.
// Ticks are delivered by the factory's owner, typically through
// Trainer.Tick, so they run on the same event loop as input.
type TimerFactory func(sessionID string, interval time.Duration) Timer

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// NewTicker calls fire every interval on a background goroutine until Stop.
// fire must hand the tick over to the event loop rather than touch session
// state itself.
func NewTicker(interval time.Duration, fire func(now time.Time)) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case now := <-t.ticker.C:
				select {
				case <-t.done:
					return
				default:
				}
				fire(now)
			case <-t.done:
				return
			}
		}
	}()
	return t
}

// Stop halts the ticker. It is safe to call more than once.
func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
