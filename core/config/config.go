package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/timebase"
)

const (
	TickSourceRTC   = "rtc"
	TickSourceTimer = "timer"

	SeedLayout = "2006-01-02 15:04:05"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Seed              string `toml:"seed,omitempty"`
	DayOfWeek         string `toml:"day_of_week,omitempty"`
	TimeScale         string `toml:"time_scale,omitempty"`
	TickSource        string `toml:"tick_source,omitempty"`
	TickPeriod        string `toml:"tick_period,omitempty"`
	ClockReadyTimeout string `toml:"clock_ready_timeout,omitempty"`
	MetricsAddr       string `toml:"metrics_address,omitempty"`
}

// Default returns the factory configuration: seeded at
// 2023-09-06 10:00:00 with the day of week given as Tuesday.
func Default() Config {
	return Config{
		Seed:              "2023-09-06 10:00:00",
		DayOfWeek:         "Tuesday",
		TimeScale:         "24h",
		TickSource:        TickSourceRTC,
		TickPeriod:        "1s",
		ClockReadyTimeout: "1s",
		MetricsAddr:       "127.0.0.1:8080",
	}
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Seed == "" {
		c.Seed = d.Seed
		if c.DayOfWeek == "" {
			c.DayOfWeek = d.DayOfWeek
		}
	}
	if c.TimeScale == "" {
		c.TimeScale = d.TimeScale
	}
	if c.TickSource == "" {
		c.TickSource = d.TickSource
	}
	if c.TickPeriod == "" {
		c.TickPeriod = d.TickPeriod
	}
	if c.ClockReadyTimeout == "" {
		c.ClockReadyTimeout = d.ClockReadyTimeout
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = d.MetricsAddr
	}
}

// Decode reads a TOML configuration and fills in defaults for omitted
// fields. Unknown fields are rejected.
func Decode(r io.Reader) (Config, error) {
	var cfg Config
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(configFile string) (Config, error) {
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Config{}, err
	}
	return Decode(bytes.NewReader(raw))
}

func (c Config) Validate() error {
	_, err := c.SeedTime()
	if err != nil {
		return err
	}
	_, err = c.Period()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	_, err = c.ReadyTimeout()
	if err != nil {
		return err
	}
	switch c.TickSource {
	case TickSourceRTC, TickSourceTimer:
	default:
		return fmt.Errorf("%w: unknown tick source %q", ErrInvalidConfig, c.TickSource)
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) || strings.EqualFold(s, d.String()[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("%w: unknown day of week %q", ErrInvalidConfig, s)
}

// SeedTime returns the configured seed. Without a day_of_week the day of
// week is derived from the date.
func (c Config) SeedTime() (calendar.Time, error) {
	scale, err := calendar.ParseScale(c.TimeScale)
	if err != nil {
		return calendar.Time{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	st, err := time.Parse(SeedLayout, c.Seed)
	if err != nil {
		st, err = time.Parse(time.RFC3339, c.Seed)
		if err != nil {
			return calendar.Time{}, fmt.Errorf("%w: seed %q", ErrInvalidConfig, c.Seed)
		}
	}
	seed := calendar.FromStd(st, scale)
	if c.DayOfWeek != "" {
		seed.DayOfWeek, err = parseWeekday(c.DayOfWeek)
		if err != nil {
			return calendar.Time{}, err
		}
	}
	err = seed.Validate()
	if err != nil {
		return calendar.Time{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return seed, nil
}

func (c Config) Period() (timebase.TickPeriod, error) {
	return timebase.ParseTickPeriod(c.TickPeriod)
}

func (c Config) ReadyTimeout() (time.Duration, error) {
	if c.ClockReadyTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ClockReadyTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: clock_ready_timeout %q", ErrInvalidConfig, c.ClockReadyTimeout)
	}
	return d, nil
}
