// Package tick provides a periodic timer tick source backed by the host's
// monotonic clock.
package tick

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/metrics"
	"example.com/rtc-time/base/timebase"
	"example.com/rtc-time/base/zaplog"
)

var (
	errNoHandler     = errors.New("tick handler not enabled")
	errInvalidPeriod = errors.New("invalid tick period")

	missedExpirations = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.TimerExpirationsMissedN,
		Help: metrics.TimerExpirationsMissedH,
	})
)

// Timer calls its handler once per tick period. Expirations missed while the
// handler was busy are delivered as extra calls so that the number of calls
// tracks elapsed time.
type Timer struct {
	Log     *zap.Logger
	mu      sync.Mutex
	period  timebase.TickPeriod
	handler func()
}

var _ timebase.TickSource = (*Timer)(nil)

func (t *Timer) log() *zap.Logger {
	if t.Log == nil {
		return zaplog.Logger()
	}
	return t.Log
}

func (t *Timer) SetTickPeriod(p timebase.TickPeriod) error {
	if !p.Valid() {
		return errInvalidPeriod
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = p
	return nil
}

func (t *Timer) EnableInt(handler func()) error {
	if handler == nil {
		return errNoHandler
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handler = handler
	return nil
}

func (t *Timer) config() (timebase.TickPeriod, func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handler == nil {
		return 0, nil, errNoHandler
	}
	return t.period, t.handler, nil
}

// Snapshot returns the host's current UTC time.
func (t *Timer) Snapshot() (calendar.Time, error) {
	return calendar.FromStd(now(), calendar.Scale24), nil
}

func deliver(log *zap.Logger, handler func(), expirations uint64) {
	if expirations > 1 {
		log.Debug("missed timer expirations", zap.Uint64("count", expirations-1))
		missedExpirations.Add(float64(expirations - 1))
	}
	for ; expirations != 0; expirations-- {
		handler()
	}
}
