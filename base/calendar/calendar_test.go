package calendar_test

import (
	"errors"
	"testing"
	"time"

	"example.com/rtc-time/base/calendar"
)

func TestValidate(t *testing.T) {
	valid := calendar.Time{
		Year: 2023, Month: 9, Day: 6, Hour: 10,
		DayOfWeek: time.Wednesday, Scale: calendar.Scale24,
	}
	tests := []struct {
		name  string
		tweak func(*calendar.Time)
		ok    bool
	}{
		{"valid", func(*calendar.Time) {}, true},
		{"month 0", func(c *calendar.Time) { c.Month = 0 }, false},
		{"month 13", func(c *calendar.Time) { c.Month = 13 }, false},
		{"day 0", func(c *calendar.Time) { c.Day = 0 }, false},
		{"sep 31", func(c *calendar.Time) { c.Day = 31 }, false},
		{"feb 29 leap", func(c *calendar.Time) { c.Year, c.Month, c.Day = 2024, 2, 29 }, true},
		{"feb 29 non-leap", func(c *calendar.Time) { c.Year, c.Month, c.Day = 2023, 2, 29 }, false},
		{"feb 29 2100", func(c *calendar.Time) { c.Year, c.Month, c.Day = 2100, 2, 29 }, false},
		{"hour 24", func(c *calendar.Time) { c.Hour = 24 }, false},
		{"hour 0 12h", func(c *calendar.Time) { c.Scale, c.Hour = calendar.Scale12, 0 }, false},
		{"hour 12 12h", func(c *calendar.Time) { c.Scale, c.Hour = calendar.Scale12, 12 }, true},
		{"hour 13 12h", func(c *calendar.Time) { c.Scale, c.Hour = calendar.Scale12, 13 }, false},
		{"minute 60", func(c *calendar.Time) { c.Minute = 60 }, false},
		{"second -1", func(c *calendar.Time) { c.Second = -1 }, false},
		{"year 1969", func(c *calendar.Time) { c.Year = 1969 }, false},
		{"year 2106", func(c *calendar.Time) { c.Year = 2106 }, false},
		{"weekday 7", func(c *calendar.Time) { c.DayOfWeek = 7 }, false},
		{"scale 5", func(c *calendar.Time) { c.Scale = 5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.tweak(&c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate(%v) = %v, want nil", c, err)
			}
			if !tt.ok && !errors.Is(err, calendar.ErrInvalidCalendarField) {
				t.Errorf("Validate(%v) = %v, want ErrInvalidCalendarField", c, err)
			}
		})
	}
}

func TestEpochRoundTrip(t *testing.T) {
	tests := []calendar.Time{
		{Year: 1970, Month: 1, Day: 1, DayOfWeek: time.Thursday},
		{Year: 2023, Month: 9, Day: 6, Hour: 10, DayOfWeek: time.Wednesday},
		{Year: 2024, Month: 2, Day: 29, Hour: 23, Minute: 59, Second: 59, DayOfWeek: time.Thursday},
		{Year: 2105, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59, DayOfWeek: time.Thursday},
	}

	for _, tt := range tests {
		got := calendar.FromEpoch(calendar.ToEpoch(tt), calendar.Scale24)
		if got != tt {
			t.Errorf("FromEpoch(ToEpoch(%v)) = %+v, want %+v", tt, got, tt)
		}
	}
}

func TestToEpoch(t *testing.T) {
	c := calendar.Time{Year: 2023, Month: 9, Day: 6, Hour: 10}
	const want = 1693994400
	if got := calendar.ToEpoch(c); got != want {
		t.Errorf("ToEpoch(%v) = %d, want %d", c, got, want)
	}
}

func TestTwelveHourScale(t *testing.T) {
	tests := []struct {
		hour24 int
		hour12 int
		pm     bool
	}{
		{0, 12, false},
		{1, 1, false},
		{11, 11, false},
		{12, 12, true},
		{13, 1, true},
		{23, 11, true},
	}

	for _, tt := range tests {
		st := time.Date(2023, 9, 6, tt.hour24, 0, 0, 0, time.UTC)
		c := calendar.FromStd(st, calendar.Scale12)
		if c.Hour != tt.hour12 || c.PM != tt.pm {
			t.Errorf("FromStd(%v, 12h) = %d pm=%v, want %d pm=%v",
				st, c.Hour, c.PM, tt.hour12, tt.pm)
		}
		if got := c.Hour24(); got != tt.hour24 {
			t.Errorf("Hour24() = %d, want %d", got, tt.hour24)
		}
	}
}

func TestCheckDayOfWeek(t *testing.T) {
	c := calendar.Time{Year: 2023, Month: 9, Day: 6, Hour: 10, DayOfWeek: time.Tuesday}
	err := calendar.CheckDayOfWeek(c)
	if !errors.Is(err, calendar.ErrDayOfWeekMismatch) {
		t.Errorf("CheckDayOfWeek(%v) = %v, want ErrDayOfWeekMismatch", c, err)
	}

	c.DayOfWeek = time.Wednesday
	if err := calendar.CheckDayOfWeek(c); err != nil {
		t.Errorf("CheckDayOfWeek(%v) = %v, want nil", c, err)
	}
}

func TestBCD(t *testing.T) {
	for i := 0; i <= 99; i++ {
		b := calendar.ToBCD(i)
		if int(b>>4) != i/10 || int(b&0x0f) != i%10 {
			t.Errorf("ToBCD(%d) = %#02x", i, b)
		}
		if got := calendar.FromBCD(b); got != i {
			t.Errorf("FromBCD(%#02x) = %d, want %d", b, got, i)
		}
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("ToBCD(100) did not panic")
		}
	}()
	calendar.ToBCD(100)
}
