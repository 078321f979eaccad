// Package wallclock maintains a second-resolution wall clock advanced by a
// periodic tick.
//
// A Service has a single writer, the tick handler OnTick, and any number of
// readers. The seconds counter and the notification flag are atomics, so
// readers never observe a partially updated value and a reader that consumes
// a notification always observes the counter value written before it.
package wallclock

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/metrics"
	"example.com/rtc-time/base/timebase"
	"example.com/rtc-time/base/zaplog"
)

var ErrAlreadyInitialized = errors.New("wall clock already initialized")

var wallClockMetrics = struct {
	ticks          prometheus.Counter
	ticksCoalesced prometheus.Counter
}{
	ticks: promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.WallClockTicksN,
		Help: metrics.WallClockTicksH,
	}),
	ticksCoalesced: promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.WallClockTicksCoalescedN,
		Help: metrics.WallClockTicksCoalescedH,
	}),
}

type Service struct {
	log         *zap.Logger
	seeded      atomic.Bool
	initialized atomic.Bool
	scale       atomic.Int32
	secs        atomic.Uint64
	pending     atomic.Bool
	wake        chan struct{}
}

var _ timebase.WallClock = (*Service)(nil)

// New returns an uninitialized wall clock. A nil log selects the process
// logger.
func New(log *zap.Logger) *Service {
	if log == nil {
		log = zaplog.Logger()
	}
	return &Service{
		log:  log,
		wake: make(chan struct{}, 1),
	}
}

// Initialize seeds the clock. It must be called once, before the tick source
// is armed. A day of week that disagrees with the date is logged and kept
// out of the counter; it is not corrected.
func (s *Service) Initialize(seed calendar.Time) error {
	err := seed.Validate()
	if err != nil {
		return err
	}
	if !s.seeded.CompareAndSwap(false, true) {
		return ErrAlreadyInitialized
	}
	err = calendar.CheckDayOfWeek(seed)
	if err != nil {
		s.log.Warn("inconsistent seed", zap.Error(err))
	}
	secs := calendar.ToEpoch(seed)
	s.scale.Store(int32(seed.Scale))
	s.secs.Store(secs)
	s.initialized.Store(true)
	s.log.Debug("wall clock initialized",
		zap.Stringer("seed", seed),
		zap.Uint64("epoch", secs),
		zap.Stringer("scale", seed.Scale),
	)
	return nil
}

// OnTick advances the clock by one second and signals the reader. It is
// called from the tick source's interrupt context: it does not block,
// allocate or log.
func (s *Service) OnTick() {
	s.secs.Add(1)
	wallClockMetrics.ticks.Inc()
	if s.pending.Swap(true) {
		wallClockMetrics.ticksCoalesced.Inc()
	}
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// ConsumeNotification reports whether at least one tick occurred since the
// previous call and clears the notification.
func (s *Service) ConsumeNotification() bool {
	return s.pending.Swap(false)
}

// Wait blocks until a notification is pending, consumes it and returns nil.
// It returns the context's error if ctx is done first.
func (s *Service) Wait(ctx context.Context) error {
	for {
		if s.ConsumeNotification() {
			return nil
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Service) mustBeInitialized() {
	if !s.initialized.Load() {
		panic("wall clock not initialized")
	}
}

func (s *Service) Epoch() uint64 {
	s.mustBeInitialized()
	return s.secs.Load()
}

func (s *Service) Now() time.Time {
	return time.Unix(int64(s.Epoch()), 0).UTC()
}

func (s *Service) Scale() calendar.Scale {
	return calendar.Scale(s.scale.Load())
}

func (s *Service) ReadCurrent() calendar.Time {
	return calendar.FromEpoch(s.Epoch(), s.Scale())
}

// TickHandler returns a tick handler for a source ticking at period p that
// calls OnTick once every full second. The returned handler must be called
// from a single goroutine.
func (s *Service) TickHandler(p timebase.TickPeriod) func() {
	n := p.TicksPerSecond()
	if n == 1 {
		return s.OnTick
	}
	i := 0
	return func() {
		i++
		if i == n {
			i = 0
			s.OnTick()
		}
	}
}
