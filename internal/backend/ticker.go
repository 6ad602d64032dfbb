package backend

import (
	"context"
	"sync"
	"time"
)

// Kind identifies what a backend event asks the UI to do.
type Kind int

const (
	KindPreviewTick Kind = iota
)

// Event is delivered on the Ticker's channel.
type Event struct {
	Kind Kind
	At   time.Time
}

// Ticker emits preview refresh events at a fixed interval. A slow consumer
// never builds a backlog: ticks that find the buffer full are dropped.
type Ticker struct {
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewTicker starts a ticker. An interval of zero or less emits nothing; the
// events channel is closed after Stop.
func NewTicker(interval time.Duration) *Ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Ticker{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 1),
	}
	t.wg.Add(1)
	go t.run()
	go func() {
		t.wg.Wait()
		close(t.events)
	}()
	return t
}

// Events returns the tick channel.
func (t *Ticker) Events() <-chan Event {
	return t.events
}

// Interval returns the configured tick interval.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Stop cancels the ticker.
func (t *Ticker) Stop() {
	t.cancel()
}

// Wait blocks until the ticker goroutine has exited and the channel is
// closed.
func (t *Ticker) Wait() {
	t.wg.Wait()
}

func (t *Ticker) run() {
	defer t.wg.Done()
	if t.interval <= 0 {
		<-t.ctx.Done()
		return
	}
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-t.ctx.Done():
			return
		case now := <-ticker.C:
			select {
			case t.events <- Event{Kind: KindPreviewTick, At: now}:
			default:
			}
		}
	}
}
