//go:build linux

package tick

import (
	"context"
	"encoding/binary"
	"time"

	"go.uber.org/zap"

	"golang.org/x/sys/unix"
)

const pollTimeout = 100 // milliseconds

func now() time.Time {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(ts.Unix()).UTC()
}

// Run arms a periodic timerfd and calls the handler on every expiration
// until ctx is done.
func (t *Timer) Run(ctx context.Context) error {
	period, handler, err := t.config()
	if err != nil {
		return err
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return err
	}
	defer func() { _ = unix.Close(fd) }()
	ts := unix.NsecToTimespec(period.Duration().Nanoseconds())
	err = unix.TimerfdSettime(fd, 0 /* flags */, &unix.ItimerSpec{Interval: ts, Value: ts}, nil /* oldValue */)
	if err != nil {
		return err
	}
	t.log().Debug("timer armed", zap.Stringer("period", period))

	pollFds := []unix.PollFd{
		{Fd: int32(fd), Events: unix.POLLIN},
	}
	var buf [8]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := unix.Poll(pollFds, pollTimeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		_, err = unix.Read(fd, buf[:])
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		deliver(t.log(), handler, binary.NativeEndian.Uint64(buf[:]))
	}
}
