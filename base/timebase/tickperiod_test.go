package timebase_test

import (
	"testing"
	"time"

	"example.com/rtc-time/base/timebase"
)

func TestTickPeriod(t *testing.T) {
	tests := []struct {
		s    string
		p    timebase.TickPeriod
		want time.Duration
	}{
		{"1s", timebase.TickPeriod1, time.Second},
		{"1/2s", timebase.TickPeriod1_2, 500 * time.Millisecond},
		{"1/8s", timebase.TickPeriod1_8, 125 * time.Millisecond},
		{"1/128s", timebase.TickPeriod1_128, 7812500 * time.Nanosecond},
	}

	for _, tt := range tests {
		p, err := timebase.ParseTickPeriod(tt.s)
		if err != nil || p != tt.p {
			t.Errorf("ParseTickPeriod(%q) = %v, %v, want %v", tt.s, p, err, tt.p)
		}
		if got := p.Duration(); got != tt.want {
			t.Errorf("%v.Duration() = %v, want %v", p, got, tt.want)
		}
		if got := p.String(); got != tt.s {
			t.Errorf("%v.String() = %q, want %q", p, got, tt.s)
		}
	}

	if p, err := timebase.ParseTickPeriod(""); err != nil || p != timebase.TickPeriod1 {
		t.Errorf("ParseTickPeriod(\"\") = %v, %v, want 1s", p, err)
	}
	if _, err := timebase.ParseTickPeriod("1/3s"); err == nil {
		t.Errorf("ParseTickPeriod(\"1/3s\") did not fail")
	}
	if timebase.TickPeriod(8).Valid() {
		t.Errorf("TickPeriod(8).Valid() = true")
	}
}
