// Package platform performs the start-up checks that must pass before a tick
// source is armed.
package platform

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/tklauser/go-sysconf"
	"go.uber.org/zap"
)

const readyPollInterval = time.Millisecond

var ErrClockNotReady = errors.New("clock not ready")

type Config struct {
	// Ready reports whether the clock source is stable. A nil Ready is
	// always ready.
	Ready        func() bool
	ReadyTimeout time.Duration
}

type Info struct {
	ClockTicksPerSecond int64
	NumCPU              int
}

func waitClockReady(ctx context.Context, ready func() bool, timeout time.Duration) error {
	if ready == nil || ready() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	t := time.NewTicker(readyPollInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if ready() {
				return nil
			}
		case <-ctx.Done():
			return ErrClockNotReady
		}
	}
}

// Init waits for the clock source to become ready and reports the host's
// timing parameters.
func Init(ctx context.Context, log *zap.Logger, cfg Config) (Info, error) {
	err := waitClockReady(ctx, cfg.Ready, cfg.ReadyTimeout)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		NumCPU: runtime.NumCPU(),
	}
	clkTck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		log.Debug("sysconf.Sysconf failed", zap.Error(err))
	} else {
		info.ClockTicksPerSecond = clkTck
	}
	log.Info("platform ready",
		zap.Int64("clk_tck", info.ClockTicksPerSecond),
		zap.Int("cpus", info.NumCPU),
	)
	return info, nil
}
