// Package report prints the wall clock to a console once per second.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/metrics"
)

var lines = promauto.NewCounter(prometheus.CounterOpts{
	Name: metrics.ReportLinesN,
	Help: metrics.ReportLinesH,
})

type Clock interface {
	ReadCurrent() calendar.Time
	Wait(ctx context.Context) error
}

// Format renders t as " YYYY-MM-DD HH:MM:SS \r\n" on the 24-hour scale.
func Format(t calendar.Time) string {
	return fmt.Sprintf(" %04d-%02d-%02d %02d:%02d:%02d \r\n",
		t.Year, t.Month, t.Day, t.Hour24(), t.Minute, t.Second)
}

func write(w io.Writer, t calendar.Time) error {
	_, err := io.WriteString(w, Format(t))
	if err != nil {
		return err
	}
	lines.Inc()
	return nil
}

// Run writes the current time once immediately and then once per tick
// notification until ctx is done or a write fails. Ticks that arrive while
// a line is being written are merged into the next line.
func Run(ctx context.Context, log *zap.Logger, clk Clock, w io.Writer) error {
	err := write(w, clk.ReadCurrent())
	if err != nil {
		return err
	}
	for {
		err = clk.Wait(ctx)
		if err != nil {
			log.Debug("report loop done", zap.Error(err))
			return nil
		}
		err = write(w, clk.ReadCurrent())
		if err != nil {
			return err
		}
	}
}
