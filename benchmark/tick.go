package benchmark

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/timebase"

	"example.com/rtc-time/core/wallclock"

	"example.com/rtc-time/driver/tick"
)

// RunTickBenchmark measures the latency between a timer tick reaching the
// wall clock and a waiting reader observing it, over numTicks ticks at the
// given period, and writes a latency summary to w.
func RunTickBenchmark(ctx context.Context, log *zap.Logger, period timebase.TickPeriod,
	numTicks int, w io.Writer) error {
	wclk := wallclock.New(log)
	err := wclk.Initialize(calendar.FromStd(time.Now(), calendar.Scale24))
	if err != nil {
		return err
	}

	var tickedAt atomic.Int64
	tmr := &tick.Timer{Log: log}
	err = tmr.SetTickPeriod(period)
	if err != nil {
		return err
	}
	err = tmr.EnableInt(func() {
		tickedAt.Store(time.Now().UnixNano())
		wclk.OnTick()
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- tmr.Run(ctx)
	}()

	hg := hdrhistogram.New(1, int64(time.Second), 3)
	for i := 0; i != numTicks; i++ {
		err = wclk.Wait(ctx)
		if err != nil {
			break
		}
		d := time.Now().UnixNano() - tickedAt.Load()
		if d < 1 {
			d = 1
		}
		err = hg.RecordValue(d)
		if err != nil {
			log.Debug("latency out of range", zap.Int64("ns", d), zap.Error(err))
		}
	}
	cancel()
	runErr := <-errc
	if runErr != nil && runErr != context.Canceled {
		return runErr
	}

	fmt.Fprintf(w, "ticks:  %d\n", hg.TotalCount())
	fmt.Fprintf(w, "min:    %v\n", time.Duration(hg.Min()))
	fmt.Fprintf(w, "mean:   %v\n", time.Duration(hg.Mean()))
	fmt.Fprintf(w, "p50:    %v\n", time.Duration(hg.ValueAtQuantile(50)))
	fmt.Fprintf(w, "p99:    %v\n", time.Duration(hg.ValueAtQuantile(99)))
	fmt.Fprintf(w, "p99.9:  %v\n", time.Duration(hg.ValueAtQuantile(99.9)))
	fmt.Fprintf(w, "max:    %v\n", time.Duration(hg.Max()))
	return nil
}
