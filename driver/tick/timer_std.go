//go:build !linux

package tick

import (
	"context"
	"time"

	"go.uber.org/zap"
)

func now() time.Time {
	return time.Now().UTC()
}

func (t *Timer) Run(ctx context.Context) error {
	period, handler, err := t.config()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(period.Duration())
	defer ticker.Stop()
	t.log().Debug("timer armed", zap.Stringer("period", period))
	for {
		select {
		case <-ticker.C:
			deliver(t.log(), handler, 1)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
