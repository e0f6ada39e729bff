package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"focusloop/internal/config"
	"focusloop/internal/controller"
	"focusloop/internal/core/history"
	"focusloop/internal/logging"
	"focusloop/internal/platform"
	"focusloop/internal/report"
	"focusloop/internal/storage"
	"focusloop/internal/ui/desktop"
	"focusloop/internal/ui/terminal"
)

const (
	appName     = "FocusLoop"
	appID       = "io.focusloop.app"
	logFileName = "focusloop.log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "focusloop: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	bootstrap := logging.New(logging.DefaultLevel, os.Stderr)
	config.LoadDotEnv(bootstrap)

	service := platform.NewService()
	configDir, err := service.GetConfigDir()
	if err != nil {
		return err
	}
	appDir := filepath.Join(configDir, config.AppDirName)

	defaults := config.Defaults(appDir, config.Interactive())
	cfg, err := config.Load(config.Path(appDir), defaults, os.LookupEnv, bootstrap)
	if err != nil {
		bootstrap.Warn().Err(err).Msg("config file ignored")
	}

	flags := flag.NewFlagSet("focusloop", flag.ExitOnError)
	config.BindFlags(flags, &cfg)
	reportPath := flags.String("report", "", "write a statistics PDF to this path and exit")
	periodName := flags.String("period", string(history.PeriodLast7Days), "period for -report: today, last7days or last28days")
	_ = flags.Parse(os.Args[1:])
	cfg = cfg.Normalize(defaults, bootstrap)

	logger, closeLog := buildLogger(cfg, bootstrap)
	defer closeLog()
	logger.Debug().
		Str("ui", string(cfg.UI)).
		Str("store", cfg.Store).
		Str("data_dir", cfg.DataDir).
		Bool("launch_at_login", cfg.LaunchAtLogin).
		Msg("configuration loaded")

	if *reportPath != "" {
		return exportReport(cfg, *reportPath, *periodName, logger)
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Info().Msg("already running, asked the running instance to show itself")
		if cfg.UI == config.UITerminal {
			fmt.Fprintln(os.Stderr, "focusloop: already running")
		}
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	if err := platform.SyncAutostart(service, appName, cfg.LaunchAtLogin); err != nil && !errors.Is(err, platform.ErrUnsupported) {
		logger.Warn().Err(err).Msg("launch at login not updated")
	}

	store := openStore(cfg, logger)
	clock := clockwork.NewRealClock()
	sound := platform.NewSoundPlayer(soundCacheDir(service), logging.Component(logger, "sound"))

	switch cfg.UI {
	case config.UITerminal:
		alerts := platform.NewSystemAlerts(platform.NewCommandNotifier(appName, logger), store, logging.Component(logger, "alerts"))
		ctl := newController(store, clock, sound, alerts, logger)
		defer closeController(ctl, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		guard.OnActivate(func() {
			logger.Info().Msg("another launch was attempted while the terminal ui is running")
		})
		return terminal.Run(ctx, ctl, alerts, logger)

	default:
		ui := desktop.New(appID, logging.Component(logger, "desktop"))
		alerts := platform.NewSystemAlerts(ui.Notifier(), store, logging.Component(logger, "alerts"))
		ctl := newController(store, clock, sound, alerts, logger)
		defer closeController(ctl, logger)

		ui.Run(desktop.Options{
			Controller: ctl,
			Alerts:     alerts,
			Guard:      guard,
			Clock:      clock,
		})
		return nil
	}
}

func newController(store storage.Store, clock clockwork.Clock, sound *platform.SoundPlayer, alerts *platform.SystemAlerts, logger zerolog.Logger) *controller.Controller {
	return controller.New(controller.Options{
		Store:   store,
		Clock:   clock,
		Logger:  logger,
		Sound:   sound,
		Alerter: alerts,
	})
}

func closeController(ctl *controller.Controller, logger zerolog.Logger) {
	if err := ctl.Close(); err != nil {
		logger.Warn().Err(err).Msg("close store")
	}
}

// buildLogger writes to a log file in terminal mode so output never lands on
// the alternate screen.
func buildLogger(cfg config.Config, bootstrap zerolog.Logger) (zerolog.Logger, func()) {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	if cfg.UI != config.UITerminal {
		return logging.New(level, os.Stderr), func() {}
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		bootstrap.Warn().Err(err).Msg("log directory unavailable, logging disabled")
		return zerolog.Nop(), func() {}
	}
	file, err := os.OpenFile(filepath.Join(cfg.DataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		bootstrap.Warn().Err(err).Msg("log file unavailable, logging disabled")
		return zerolog.Nop(), func() {}
	}
	return logging.New(level, file), func() {
		_ = file.Close()
	}
}

// openStore falls back to memory so the timer keeps working without
// persistence.
func openStore(cfg config.Config, logger zerolog.Logger) storage.Store {
	store, err := storage.Open(cfg.Store, cfg.DataDir, logging.Component(logger, "storage"))
	if err != nil {
		logger.Warn().Err(err).Str("backend", cfg.Store).Msg("store unavailable, settings and history will not persist")
		return storage.NewMemoryStore()
	}
	return store
}

func soundCacheDir(service platform.Service) string {
	cacheDir, err := service.GetCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, config.AppDirName, "sounds")
}

func exportReport(cfg config.Config, path, periodName string, logger zerolog.Logger) error {
	period, err := history.ParsePeriod(periodName)
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	defer store.Close()

	clock := clockwork.NewRealClock()
	recorder := history.NewRecorder(store, clock, logging.Component(logger, "history"))

	var out io.Writer = os.Stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := report.WritePDF(out, report.Build(recorder, period, clock.Now())); err != nil {
		return err
	}
	logger.Info().Str("path", path).Str("period", string(period)).Msg("statistics report written")
	return nil
}
