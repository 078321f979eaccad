// RTC wall clock service

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/rtc-time/base/calendar"
	"example.com/rtc-time/base/metrics"
	"example.com/rtc-time/base/timebase"
	"example.com/rtc-time/base/zaplog"

	"example.com/rtc-time/benchmark"

	"example.com/rtc-time/core/config"
	"example.com/rtc-time/core/report"
	coretimebase "example.com/rtc-time/core/timebase"
	"example.com/rtc-time/core/wallclock"

	"example.com/rtc-time/driver/platform"
	"example.com/rtc-time/driver/rtc"
	"example.com/rtc-time/driver/tick"
)

var (
	log *zap.Logger
)

func initLogger(verbose bool) {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	c.OutputPaths = []string{"stderr"}
	c.EncoderConfig.EncodeCaller = func(
		caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		p := caller.TrimmedPath()
		if len(p) > 30 {
			p = "..." + p[len(p)-27:]
		}
		enc.AppendString(fmt.Sprintf("%30s", p))
	}
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	var err error
	log, err = c.Build()
	if err != nil {
		panic(err)
	}
	zaplog.SetLogger(log)
}

func runMonitor(log *zap.Logger, addr string) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: metrics.WallClockEpochN,
		Help: metrics.WallClockEpochH,
	}, func() float64 {
		return float64(coretimebase.Epoch())
	}))
	http.Handle("/metrics", promhttp.Handler())
	err := http.ListenAndServe(addr, nil)
	log.Fatal("failed to serve metrics", zap.Error(err))
}

func loadConfig(configFile string) config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	return cfg
}

// createTickSource returns the configured tick source together with the
// readiness check platform initialization waits on.
func createTickSource(cfg config.Config, seed calendar.Time) (
	timebase.TickSource, func() bool) {
	switch cfg.TickSource {
	case config.TickSourceRTC:
		d := &rtc.Device{Log: log}
		err := d.Open(seed)
		if err != nil {
			log.Fatal("failed to open RTC", zap.Error(err))
		}
		return d, func() bool {
			_, err := d.GetDateAndTime()
			return err == nil
		}
	case config.TickSourceTimer:
		return &tick.Timer{Log: log}, nil
	default:
		log.Fatal("unexpected tick source", zap.String("tick_source", cfg.TickSource))
		return nil, nil
	}
}

func runClock(configFile string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(configFile)
	seed, err := cfg.SeedTime()
	if err != nil {
		log.Fatal("invalid seed", zap.Error(err))
	}
	period, err := cfg.Period()
	if err != nil {
		log.Fatal("invalid tick period", zap.Error(err))
	}
	readyTimeout, err := cfg.ReadyTimeout()
	if err != nil {
		log.Fatal("invalid clock ready timeout", zap.Error(err))
	}

	src, ready := createTickSource(cfg, seed)
	_, err = platform.Init(ctx, log, platform.Config{
		Ready:        ready,
		ReadyTimeout: readyTimeout,
	})
	if err != nil {
		log.Fatal("platform initialization failed",
			zap.String("tick_source", cfg.TickSource), zap.Error(err))
	}

	wclk := wallclock.New(log)
	err = wclk.Initialize(seed)
	if err != nil {
		log.Fatal("failed to initialize wall clock", zap.Error(err))
	}
	coretimebase.RegisterClock(wclk)

	err = src.SetTickPeriod(period)
	if err != nil {
		log.Fatal("failed to set tick period", zap.Stringer("period", period), zap.Error(err))
	}
	err = src.EnableInt(wclk.TickHandler(period))
	if err != nil {
		log.Fatal("failed to enable tick interrupt", zap.Error(err))
	}

	go runMonitor(log, cfg.MetricsAddr)

	go func() {
		err := src.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal("tick source failed", zap.Error(err))
		}
	}()

	err = report.Run(ctx, log, wclk, os.Stdout)
	if err != nil {
		log.Fatal("failed to write time", zap.Error(err))
	}
}

// runTool clocks the RTC model by hand for numTicks ticks, printing the wall
// clock after every tick interrupt and checking it against the RTC calendar
// registers.
func runTool(w io.Writer, seed calendar.Time, numTicks int) error {
	d := &rtc.Device{Log: log}
	err := d.Open(seed)
	if err != nil {
		return err
	}
	wclk := wallclock.New(log)
	err = wclk.Initialize(seed)
	if err != nil {
		return err
	}
	err = d.SetTickPeriod(timebase.TickPeriod1)
	if err != nil {
		return err
	}
	err = d.EnableInt(wclk.OnTick)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, report.Format(wclk.ReadCurrent()))
	if err != nil {
		return err
	}
	for i := 0; i != numTicks; i++ {
		if d.Tick() {
			d.HandleIRQ()
		}
		if !wclk.ConsumeNotification() {
			continue
		}
		cur := wclk.ReadCurrent()
		snap, err := d.Snapshot()
		if err != nil {
			return err
		}
		if !cur.Equal(snap) {
			log.Warn("wall clock and RTC disagree",
				zap.Stringer("wallclock", cur), zap.Stringer("rtc", snap))
		}
		if cur.DayOfWeek != snap.DayOfWeek {
			log.Debug("day of week differs",
				zap.Stringer("wallclock", cur.DayOfWeek), zap.Stringer("rtc", snap.DayOfWeek))
		}
		_, err = io.WriteString(w, report.Format(cur))
		if err != nil {
			return err
		}
	}
	return nil
}

func runBenchmark(period timebase.TickPeriod, numTicks int) {
	err := benchmark.RunTickBenchmark(context.Background(), log, period, numTicks, os.Stdout)
	if err != nil {
		log.Fatal("benchmark failed", zap.Error(err))
	}
}

func exitWithUsage() {
	fmt.Println("<usage>")
	fmt.Println("  run -config <file> [-verbose]")
	fmt.Println("  tool [-seed \"YYYY-MM-DD HH:MM:SS\"] [-scale 24h|12h] [-ticks N] [-verbose]")
	fmt.Println("  benchmark [-period 1s|1/2s|...|1/128s] [-n N] [-verbose]")
	os.Exit(1)
}

func main() {
	var (
		verbose    bool
		configFile string
		seedStr    string
		scaleStr   string
		toolTicks  int
		benchTicks int
		periodStr  string
	)

	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	toolFlags := flag.NewFlagSet("tool", flag.ExitOnError)
	benchmarkFlags := flag.NewFlagSet("benchmark", flag.ExitOnError)

	runFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	runFlags.StringVar(&configFile, "config", "", "Config file")

	toolFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	toolFlags.StringVar(&seedStr, "seed", config.Default().Seed, "Seed time")
	toolFlags.StringVar(&scaleStr, "scale", "24h", "Time scale")
	toolFlags.IntVar(&toolTicks, "ticks", 10, "Number of ticks")

	benchmarkFlags.BoolVar(&verbose, "verbose", false, "Verbose logging")
	benchmarkFlags.StringVar(&periodStr, "period", "1/128s", "Tick period")
	benchmarkFlags.IntVar(&benchTicks, "n", 1000, "Number of ticks")

	if len(os.Args) < 2 {
		exitWithUsage()
	}

	switch os.Args[1] {
	case runFlags.Name():
		err := runFlags.Parse(os.Args[2:])
		if err != nil || runFlags.NArg() != 0 {
			exitWithUsage()
		}
		if configFile == "" {
			exitWithUsage()
		}
		initLogger(verbose)
		runClock(configFile)
	case toolFlags.Name():
		err := toolFlags.Parse(os.Args[2:])
		if err != nil || toolFlags.NArg() != 0 || toolTicks < 0 {
			exitWithUsage()
		}
		cfg := config.Default()
		cfg.Seed = seedStr
		cfg.DayOfWeek = ""
		cfg.TimeScale = scaleStr
		seed, err := cfg.SeedTime()
		if err != nil {
			exitWithUsage()
		}
		initLogger(verbose)
		err = runTool(os.Stdout, seed, toolTicks)
		if err != nil {
			log.Fatal("tool failed", zap.Error(err))
		}
	case benchmarkFlags.Name():
		err := benchmarkFlags.Parse(os.Args[2:])
		if err != nil || benchmarkFlags.NArg() != 0 || benchTicks <= 0 {
			exitWithUsage()
		}
		period, err := timebase.ParseTickPeriod(periodStr)
		if err != nil {
			exitWithUsage()
		}
		initLogger(verbose)
		runBenchmark(period, benchTicks)
	default:
		exitWithUsage()
	}
}
