package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/joho/godotenv"

	"lhwatch/internal/config"
	"lhwatch/internal/fetch"
	"lhwatch/internal/monitor"
	"lhwatch/internal/sink"
	"lhwatch/internal/store"
	"lhwatch/pkg/logx"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config file (yaml or json, optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Secrets usually arrive through the environment; a local .env is a
	// convenience for development and absent in production.
	_ = godotenv.Load()

	boot := logx.NewConsole("info")

	var mgr *config.Manager
	cfg := config.Default()
	if cfgPath != "" {
		mgr = config.NewManager(cfgPath)
		loaded, err := mgr.Load()
		if err != nil {
			boot.Error("config load failed", logx.String("path", cfgPath), logx.Err(err))
			os.Exit(1)
		}
		cfg = loaded
	}
	config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		boot.Error("config invalid", logx.Err(err))
		os.Exit(1)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig(cfg.Logging.File),
	})
	defer logSvc.Close()

	tg, err := sink.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log.With(logx.String("sink", "telegram")))
	if err != nil {
		log.Error("telegram sink init failed", logx.Err(err))
		os.Exit(1)
	}
	dc := sink.NewDiscord(cfg.Discord.WebhookURL, log.With(logx.String("sink", "discord")))

	loc := cfg.Location()
	mon, err := monitor.New(monitor.Options{
		Log:      log.With(logx.String("component", "monitor")),
		Seen:     store.OpenSeen(filepath.Join(cfg.DataDir, "seen.json"), log),
		Daily:    store.OpenDaily(filepath.Join(cfg.DataDir, "daily_summary.json"), loc, log),
		Fetcher:  fetch.New(log.With(logx.String("component", "fetch"))),
		Telegram: tg,
		Discord:  dc,
		APIKey:   cfg.OpenData.APIKey,
		Interval: cfg.CheckInterval(),
		Location: loc,
	})
	if err != nil {
		log.Error("startup failed", logx.Err(err))
		os.Exit(1)
	}

	if mgr != nil {
		mgr.SetLogger(log.With(logx.String("component", "config")))
		sub := mgr.Subscribe(1)
		go func() {
			if err := mgr.Watch(ctx); err != nil {
				log.Warn("config watch unavailable", logx.Err(err))
			}
		}()
		go func() {
			for next := range sub {
				config.ApplyEnv(next)
				logSvc.Apply(logx.Config{
					Level:   next.Logging.Level,
					Console: next.Logging.Console,
					File:    logx.FileConfig(next.Logging.File),
				})
				mon.SetInterval(next.CheckInterval())
			}
		}()
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	log.Info("lhwatch started",
		logx.String("data_dir", cfg.DataDir),
		logx.Duration("interval", cfg.CheckInterval()),
		logx.Bool("telegram", tg.Enabled()),
		logx.Bool("discord", dc.Enabled()))

	if err := mon.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("monitor stopped", logx.Err(err))
		os.Exit(1)
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	log.Info("lhwatch stopped")
}
