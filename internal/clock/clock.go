// Package clock drives the local time display of the shown location.
package clock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/model"
)

const (
	TimeLayout = "15:04:05"
	DateLayout = "Monday, January 2, 2006"
)

var active atomic.Int64

// Active returns the number of drivers whose goroutine has not exited.
func Active() int64 {
	return active.Load()
}

// Compute returns the wall clock of a location offsetSeconds east of UTC.
func Compute(now time.Time, offsetSeconds int) model.LocalClock {
	t := now.UTC().Add(time.Duration(offsetSeconds) * time.Second)
	return model.LocalClock{Time: t.Format(TimeLayout), Date: t.Format(DateLayout)}
}

type Option func(*Driver)

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

func WithInterval(interval time.Duration) Option {
	return func(d *Driver) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// Driver recomputes a LocalClock on every interval until stopped. A driver
// belongs to exactly one weather snapshot.
type Driver struct {
	offset   int
	now      func() time.Time
	interval time.Duration

	mu      sync.RWMutex
	reading model.LocalClock

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start computes the first reading synchronously and begins ticking.
func Start(offsetSeconds int, opts ...Option) *Driver {
	d := &Driver{
		offset:   offsetSeconds,
		now:      time.Now,
		interval: time.Second,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.Tick()

	active.Add(1)
	go d.run()
	return d
}

func (d *Driver) run() {
	defer func() {
		active.Add(-1)
		close(d.done)
	}()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.Tick()
		case <-d.stop:
			return
		}
	}
}

// Tick recomputes the reading from the current time.
func (d *Driver) Tick() {
	r := Compute(d.now(), d.offset)
	d.mu.Lock()
	d.reading = r
	d.mu.Unlock()
}

func (d *Driver) Reading() model.LocalClock {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.reading
}

func (d *Driver) Offset() int {
	return d.offset
}

// Stop ends the ticking goroutine and waits for it. Safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}
