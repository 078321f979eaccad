package benchmark_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"example.com/rtc-time/base/timebase"

	"example.com/rtc-time/benchmark"
)

func TestRunTickBenchmark(t *testing.T) {
	var out bytes.Buffer
	err := benchmark.RunTickBenchmark(context.Background(), zap.NewNop(),
		timebase.TickPeriod1_128, 10, &out)
	if err != nil {
		t.Fatalf("RunTickBenchmark failed: %v", err)
	}
	if !strings.Contains(out.String(), "ticks:  10\n") {
		t.Errorf("RunTickBenchmark wrote %q, want 10 ticks", out.String())
	}
}
