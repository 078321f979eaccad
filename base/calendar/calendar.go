// Package calendar implements the second-resolution calendar date/time used
// to seed and read the wall clock. All values are UTC; conversions to and
// from epoch seconds go through the standard time package.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinYear = 1970
	MaxYear = 2105 // last full year representable by a 32-bit seconds counter
)

var (
	ErrInvalidCalendarField = errors.New("invalid calendar field")
	ErrDayOfWeekMismatch    = errors.New("day of week does not match date")
)

type Scale int

const (
	Scale24 Scale = iota
	Scale12
)

func (s Scale) String() string {
	switch s {
	case Scale24:
		return "24h"
	case Scale12:
		return "12h"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

func ParseScale(s string) (Scale, error) {
	switch s {
	case "", "24h", "24":
		return Scale24, nil
	case "12h", "12":
		return Scale12, nil
	default:
		return Scale24, fmt.Errorf("unknown time scale %q", s)
	}
}

type Time struct {
	Year      int
	Month     int
	Day       int
	Hour      int
	Minute    int
	Second    int
	DayOfWeek time.Weekday
	Scale     Scale
	PM        bool
}

func fieldError(name string, v int) error {
	return fmt.Errorf("%w: %s=%d", ErrInvalidCalendarField, name, v)
}

func daysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (t Time) Validate() error {
	if t.Year < MinYear || t.Year > MaxYear {
		return fieldError("year", t.Year)
	}
	if t.Month < 1 || t.Month > 12 {
		return fieldError("month", t.Month)
	}
	if t.Day < 1 || t.Day > daysIn(t.Year, t.Month) {
		return fieldError("day", t.Day)
	}
	switch t.Scale {
	case Scale24:
		if t.Hour < 0 || t.Hour > 23 {
			return fieldError("hour", t.Hour)
		}
	case Scale12:
		if t.Hour < 1 || t.Hour > 12 {
			return fieldError("hour", t.Hour)
		}
	default:
		return fieldError("scale", int(t.Scale))
	}
	if t.Minute < 0 || t.Minute > 59 {
		return fieldError("minute", t.Minute)
	}
	if t.Second < 0 || t.Second > 59 {
		return fieldError("second", t.Second)
	}
	if t.DayOfWeek < time.Sunday || t.DayOfWeek > time.Saturday {
		return fieldError("day_of_week", int(t.DayOfWeek))
	}
	return nil
}

// Hour24 returns the hour on the 24-hour scale.
func (t Time) Hour24() int {
	if t.Scale != Scale12 {
		return t.Hour
	}
	h := t.Hour % 12
	if t.PM {
		h += 12
	}
	return h
}

func (t Time) Std() time.Time {
	return time.Date(t.Year, time.Month(t.Month), t.Day,
		t.Hour24(), t.Minute, t.Second, 0, time.UTC)
}

func FromStd(st time.Time, scale Scale) Time {
	st = st.UTC()
	t := Time{
		Year:      st.Year(),
		Month:     int(st.Month()),
		Day:       st.Day(),
		Hour:      st.Hour(),
		Minute:    st.Minute(),
		Second:    st.Second(),
		DayOfWeek: st.Weekday(),
		Scale:     scale,
	}
	if scale == Scale12 {
		t.PM = t.Hour >= 12
		t.Hour %= 12
		if t.Hour == 0 {
			t.Hour = 12
		}
	}
	return t
}

// ToEpoch converts t to seconds since 1970-01-01 00:00:00 UTC. The supplied
// day of week does not take part in the conversion.
func ToEpoch(t Time) uint64 {
	secs := t.Std().Unix()
	if secs < 0 {
		panic("calendar time before epoch")
	}
	return uint64(secs)
}

func FromEpoch(secs uint64, scale Scale) Time {
	return FromStd(time.Unix(int64(secs), 0), scale)
}

// CheckDayOfWeek reports whether the supplied day of week agrees with the
// date.
func CheckDayOfWeek(t Time) error {
	want := t.Std().Weekday()
	if t.DayOfWeek != want {
		return fmt.Errorf("%w: %04d-%02d-%02d is a %s, not a %s",
			ErrDayOfWeekMismatch, t.Year, t.Month, t.Day, want, t.DayOfWeek)
	}
	return nil
}

func (t Time) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour24(), t.Minute, t.Second)
}

// Equal compares the date and time of day on the 24-hour scale; the day of
// week is not compared.
func (t Time) Equal(u Time) bool {
	return t.Std().Equal(u.Std())
}
