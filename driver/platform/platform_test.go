package platform_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"example.com/rtc-time/driver/platform"
)

func TestInitReady(t *testing.T) {
	info, err := platform.Init(context.Background(), zap.NewNop(), platform.Config{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if info.NumCPU < 1 {
		t.Errorf("Init().NumCPU = %d, want at least 1", info.NumCPU)
	}
}

func TestInitBecomesReady(t *testing.T) {
	var polls atomic.Int32
	cfg := platform.Config{
		Ready:        func() bool { return polls.Add(1) > 3 },
		ReadyTimeout: 5 * time.Second,
	}
	_, err := platform.Init(context.Background(), zap.NewNop(), cfg)
	if err != nil {
		t.Errorf("Init() = %v, want nil", err)
	}
}

func TestInitClockNotReady(t *testing.T) {
	cfg := platform.Config{
		Ready:        func() bool { return false },
		ReadyTimeout: 20 * time.Millisecond,
	}
	_, err := platform.Init(context.Background(), zap.NewNop(), cfg)
	if !errors.Is(err, platform.ErrClockNotReady) {
		t.Errorf("Init() = %v, want ErrClockNotReady", err)
	}
}
