package timebase

import (
	"fmt"
	"time"
)

// TickPeriod selects the tick interval as a power-of-two fraction of a
// second, 1s down to 1/128s.
type TickPeriod int

const (
	TickPeriod1 TickPeriod = iota
	TickPeriod1_2
	TickPeriod1_4
	TickPeriod1_8
	TickPeriod1_16
	TickPeriod1_32
	TickPeriod1_64
	TickPeriod1_128
)

func (p TickPeriod) Valid() bool {
	return TickPeriod1 <= p && p <= TickPeriod1_128
}

func (p TickPeriod) TicksPerSecond() int {
	if !p.Valid() {
		panic("invalid tick period")
	}
	return 1 << uint(p)
}

func (p TickPeriod) Duration() time.Duration {
	return time.Second / time.Duration(p.TicksPerSecond())
}

func (p TickPeriod) String() string {
	if !p.Valid() {
		return fmt.Sprintf("TickPeriod(%d)", int(p))
	}
	if p == TickPeriod1 {
		return "1s"
	}
	return fmt.Sprintf("1/%ds", p.TicksPerSecond())
}

func ParseTickPeriod(s string) (TickPeriod, error) {
	if s == "" {
		return TickPeriod1, nil
	}
	for p := TickPeriod1; p <= TickPeriod1_128; p++ {
		if s == p.String() {
			return p, nil
		}
	}
	return TickPeriod1, fmt.Errorf("unknown tick period %q", s)
}
