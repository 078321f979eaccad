package timebase

import (
	"sync/atomic"
	"time"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/timebase"
)

var (
	wclk atomic.Value
)

func RegisterClock(c timebase.WallClock) {
	if c == nil {
		panic("wall clock must not be nil")
	}
	swapped := wclk.CompareAndSwap(nil, c)
	if !swapped {
		panic("wall clock already registered")
	}
}

func clock() timebase.WallClock {
	c, ok := wclk.Load().(timebase.WallClock)
	if !ok {
		panic("no wall clock registered")
	}
	return c
}

func Now() time.Time {
	return clock().Now()
}

func Epoch() uint64 {
	return clock().Epoch()
}

func Current() calendar.Time {
	return clock().ReadCurrent()
}
