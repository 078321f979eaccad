package timebase

import (
	"context"
	"time"

	"example.com/rtc-time/base/calendar"
)

// WallClock is a second-resolution clock advanced by a tick source.
type WallClock interface {
	Epoch() uint64
	Now() time.Time
	ReadCurrent() calendar.Time
}

// TickSource raises a periodic tick and exposes its own date/time registers.
// SetTickPeriod and EnableInt are called once before Run.
type TickSource interface {
	SetTickPeriod(p TickPeriod) error
	EnableInt(handler func()) error
	Run(ctx context.Context) error
	Snapshot() (calendar.Time, error)
}
