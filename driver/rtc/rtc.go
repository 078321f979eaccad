// Package rtc models a real-time clock peripheral: BCD calendar registers,
// a programmable periodic tick interrupt and a write-one-to-clear interrupt
// status register. The calendar counts on its own; the day-of-week register
// is a plain counter that rolls over at midnight and is never derived from
// the date.
package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/metrics"
	"example.com/rtc-time/base/timebase"
	"example.com/rtc-time/base/zaplog"

	"example.com/rtc-time/driver/tick"
)

var (
	ErrNotOpen           = errors.New("RTC not open")
	ErrYearOutOfRange    = errors.New("year out of RTC range")
	ErrInvalidTickPeriod = errors.New("invalid tick period")
	ErrInvalidRegister   = errors.New("invalid RTC register")
	ErrNoHandler         = errors.New("tick handler must not be nil")
)

var rtcMetrics = struct {
	interrupts         prometheus.Counter
	spuriousInterrupts prometheus.Counter
}{
	interrupts: promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.RTCInterruptsN,
		Help: metrics.RTCInterruptsH,
	}),
	spuriousInterrupts: promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.RTCSpuriousInterruptsN,
		Help: metrics.RTCSpuriousInterruptsH,
	}),
}

type Device struct {
	Log      *zap.Logger
	mu       sync.Mutex
	regs     [numRegisters]uint8
	open     bool
	subticks int
	handler  func()
}

var _ timebase.TickSource = (*Device)(nil)

func (d *Device) log() *zap.Logger {
	if d.Log == nil {
		return zaplog.Logger()
	}
	return d.Log
}

// Open loads the calendar registers from seed, selects a 1s tick period
// and disables all interrupts.
func (d *Device) Open(seed calendar.Time) error {
	err := seed.Validate()
	if err != nil {
		return err
	}
	if seed.Year < baseYear || seed.Year > maxYear {
		return fmt.Errorf("%w: %d", ErrYearOutOfRange, seed.Year)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs = [numRegisters]uint8{}
	d.setCalendar(seed)
	d.subticks = 0
	d.open = true
	d.log().Debug("RTC open",
		zap.Stringer("time", seed),
		zap.Stringer("weekday", seed.DayOfWeek),
		zap.Stringer("scale", seed.Scale),
	)
	return nil
}

func (d *Device) setCalendar(t calendar.Time) {
	hours := calendar.ToBCD(t.Hour)
	if t.Scale == calendar.Scale12 {
		d.regs[ClkFmt] &^= ClkFmt24h
		if t.PM {
			hours |= HoursPM
		}
	} else {
		d.regs[ClkFmt] |= ClkFmt24h
	}
	d.regs[Seconds] = calendar.ToBCD(t.Second)
	d.regs[Minutes] = calendar.ToBCD(t.Minute)
	d.regs[Hours] = hours
	d.regs[Days] = calendar.ToBCD(t.Day)
	d.regs[Weekdays] = uint8(t.DayOfWeek)
	d.regs[Months] = calendar.ToBCD(t.Month)
	d.regs[Years] = calendar.ToBCD(t.Year - baseYear)
}

func (d *Device) calendar() calendar.Time {
	t := calendar.Time{
		Year:      calendar.FromBCD(d.regs[Years]) + baseYear,
		Month:     calendar.FromBCD(d.regs[Months] & 0x1F),
		Day:       calendar.FromBCD(d.regs[Days] & 0x3F),
		Minute:    calendar.FromBCD(d.regs[Minutes] & 0x7F),
		Second:    calendar.FromBCD(d.regs[Seconds] & 0x7F),
		DayOfWeek: time.Weekday(d.regs[Weekdays] & 0x07),
	}
	if d.regs[ClkFmt]&ClkFmt24h != 0 {
		t.Scale = calendar.Scale24
		t.Hour = calendar.FromBCD(d.regs[Hours] & 0x3F)
	} else {
		t.Scale = calendar.Scale12
		t.Hour = calendar.FromBCD(d.regs[Hours] & 0x1F)
		t.PM = d.regs[Hours]&HoursPM != 0
	}
	return t
}

func (d *Device) advanceSecond() {
	t := d.calendar()
	next := calendar.FromStd(t.Std().Add(time.Second), t.Scale)
	if next.Year > maxYear {
		// The two-digit year register wraps.
		next.Year = baseYear
	}
	next.DayOfWeek = t.DayOfWeek
	if next.Day != t.Day {
		next.DayOfWeek = (t.DayOfWeek + 1) % 7
	}
	d.setCalendar(next)
}

func (d *Device) SetTickPeriod(p timebase.TickPeriod) error {
	if !p.Valid() {
		return ErrInvalidTickPeriod
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs[Tick] = uint8(p)
	d.subticks = 0
	return nil
}

func (d *Device) EnableInterrupts(mask uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs[IntEn] |= mask
}

func (d *Device) DisableInterrupts(mask uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regs[IntEn] &^= mask
}

// EnableInt installs handler as the tick interrupt handler and enables the
// tick interrupt.
func (d *Device) EnableInt(handler func()) error {
	if handler == nil {
		return ErrNoHandler
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = handler
	d.regs[IntEn] |= IntTick
	return nil
}

func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	if reg >= numRegisters {
		return 0, ErrInvalidRegister
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[reg], nil
}

func (d *Device) WriteRegister(reg uint8, v uint8) error {
	if reg >= numRegisters {
		return ErrInvalidRegister
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch reg {
	case IntSts:
		d.regs[IntSts] &^= v
	case Tick:
		d.regs[Tick] = v & 0x07
		d.subticks = 0
	default:
		d.regs[reg] = v
	}
	return nil
}

// GetDateAndTime returns a consistent snapshot of the calendar registers.
func (d *Device) GetDateAndTime() (calendar.Time, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return calendar.Time{}, ErrNotOpen
	}
	return d.calendar(), nil
}

func (d *Device) Snapshot() (calendar.Time, error) {
	return d.GetDateAndTime()
}

// Tick advances the device by one tick period, counting the calendar up
// once a full second has elapsed, and raises the tick status bit. It
// reports whether an enabled interrupt is pending.
func (d *Device) Tick() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return false
	}
	d.subticks++
	if d.subticks >= timebase.TickPeriod(d.regs[Tick]).TicksPerSecond() {
		d.subticks = 0
		d.advanceSecond()
	}
	d.regs[IntSts] |= IntTick
	return d.regs[IntEn]&d.regs[IntSts] != 0
}

// HandleIRQ services a pending tick interrupt: it clears the status bit and
// calls the tick handler outside the register lock.
func (d *Device) HandleIRQ() {
	d.mu.Lock()
	if d.regs[IntEn]&IntTick == 0 || d.regs[IntSts]&IntTick == 0 {
		d.mu.Unlock()
		rtcMetrics.spuriousInterrupts.Inc()
		return
	}
	d.regs[IntSts] &^= IntTick
	h := d.handler
	d.mu.Unlock()
	rtcMetrics.interrupts.Inc()
	if h != nil {
		h()
	}
}

// Run clocks the device from a host timer at the selected tick period until
// ctx is done.
func (d *Device) Run(ctx context.Context) error {
	d.mu.Lock()
	open := d.open
	period := timebase.TickPeriod(d.regs[Tick])
	d.mu.Unlock()
	if !open {
		return ErrNotOpen
	}
	tmr := &tick.Timer{Log: d.log()}
	err := tmr.SetTickPeriod(period)
	if err != nil {
		return err
	}
	err = tmr.EnableInt(func() {
		if d.Tick() {
			d.HandleIRQ()
		}
	})
	if err != nil {
		return err
	}
	return tmr.Run(ctx)
}
