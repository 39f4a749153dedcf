package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/NordCoder/ResultWatch/internal/config/monitor"
	"github.com/NordCoder/ResultWatch/internal/obs"
	"github.com/NordCoder/ResultWatch/internal/obs/retry"
	"github.com/NordCoder/ResultWatch/internal/repository/kafka"
	pg "github.com/NordCoder/ResultWatch/internal/repository/postgres"
	"github.com/NordCoder/ResultWatch/internal/services/monitor"
	monitorrepo "github.com/NordCoder/ResultWatch/internal/services/monitor/repo"
	notifier "github.com/NordCoder/ResultWatch/internal/services/telegram-notifier"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/monitor.yaml"
}

func wire(root context.Context, cfg *config.Config, bot *notifier.Bot, db *pg.DB, events *kafka.MonitorEventsKafka, l *zap.Logger) *monitor.Runner {
	clock := systemClock{}

	var (
		runs   monitorrepo.RunRepo
		notes  monitorrepo.NotificationRepo
		stream monitorrepo.Events
	)
	if db != nil {
		runs.R = pg.NewRunRepo(db)
		notes.R = pg.NewNotificationRepo(db)
	}
	if events != nil {
		stream.P = events
	}

	httpc := monitor.NewHTTPClient(cfg.HTTP)
	out := &monitor.Announcer{
		Out:   bot,
		Store: notes,
		Clock: clock,
		Pace:  cfg.Telegram.Pace,
		Log:   obs.Component(l, "monitor.announcer"),
	}
	dl := &monitor.Downloader{
		Client:       httpc,
		Targets:      cfg.Download.Targets,
		Timeout:      cfg.HTTP.Timeout,
		MaxBodyBytes: cfg.Download.MaxBodyBytes,
		SiteURL:      cfg.Site.URL,
		Out:          out,
		Events:       stream,
		Clock:        clock,
		Log:          obs.Component(l, "monitor.downloader"),
	}

	return &monitor.Runner{
		Log: obs.Component(l, "monitor.runner"),
		Cfg: monitor.Settings{
			URL:                cfg.Site.URL,
			CheckInterval:      cfg.Site.CheckInterval(),
			ScheduledInterval:  cfg.Site.ScheduledInterval(),
			ContinuousDuration: cfg.Site.ContinuousDuration(),
			ShutdownGrace:      cfg.Shutdown.Grace,
		},
		Probe:  monitor.HTTPProbe{Client: httpc, Timeout: cfg.HTTP.Timeout},
		Out:    out,
		Batch:  dl,
		Runs:   runs,
		Events: stream,
		Clock:  clock,
		Tasks:  monitor.NewTaskGroup(root, obs.Component(l, "monitor.tasks")),
	}
}

func main() {
	// init
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}

	// logger
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	// otel
	otelCloser, err := obs.SetupOTel(root, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	// telegram
	bot, err := notifier.New(cfg.Telegram)
	if err != nil {
		l.Fatal("telegram init", zap.Error(err))
	}
	bot = bot.WithLogger(l)
	l.Info("telegram bot ready", zap.String("bot", bot.Username()))

	// db (optional journal)
	var db *pg.DB
	if cfg.DB.Enabled() {
		db, err = pg.New(root, cfg.DB)
		if err != nil {
			l.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
	}

	// kafka (optional event stream)
	var events *kafka.MonitorEventsKafka
	if cfg.Kafka.Enabled() {
		prod := kafka.BootstrapProducer(root, kafka.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, l)
		defer func() { _ = prod.Close() }()
		events = kafka.NewMonitorEventsKafka(prod, retry.DefaultKafkaPolicy(l))
	}

	// metrics
	var health func(context.Context) error
	if db != nil {
		health = db.Ping
	}
	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, health, l)

	// wiring
	runner := wire(root, cfg, bot, db, events, l)

	// start
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(root) }()

	// loop
	select {
	case <-root.Done():
		// Run drains detached tasks before returning
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error("monitor stopped", zap.Error(err))
	}

	// graceful metrics server shutdown
	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = obs.ShutdownMetricsServer(shCtx, ms)
	l.Info("bye")
}
