package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/t77yq/lifeos/internal/assist"
	"github.com/t77yq/lifeos/internal/config"
	"github.com/t77yq/lifeos/internal/monitor"
	"github.com/t77yq/lifeos/internal/notify"
	"github.com/t77yq/lifeos/internal/scheduler"
	"github.com/t77yq/lifeos/internal/service"
	"github.com/t77yq/lifeos/internal/storage"
	"github.com/t77yq/lifeos/internal/store"
	"github.com/t77yq/lifeos/internal/syncer"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sink, err := storage.Open(ctx, logger, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer sink.Close()

	var opts []store.Option
	var publisher *service.EventPublisher
	if cfg.NATS.Enabled {
		nc, err := connectNATS(cfg, logger)
		if err != nil {
			return err
		}
		defer nc.Close()

		js, err := nc.JetStream()
		if err != nil {
			return fmt.Errorf("failed to create JetStream context: %w", err)
		}
		publisher, err = service.NewEventPublisher(js, logger)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
		opts = append(opts, store.WithEventSink(publisher))
	}

	if cfg.Notify.Email.Enabled {
		emailNotifier, err := notify.NewEmailNotifier(cfg.EmailOptions(), nil, logger)
		if err != nil {
			return fmt.Errorf("failed to create email notifier: %w", err)
		}
		emailNotifier.Start(ctx)
		defer emailNotifier.Stop()
		opts = append(opts, store.WithEventSink(emailNotifier))
	}

	s := store.New(logger, opts...)
	collections, err := sink.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := s.Restore(collections); err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	storeSyncer := syncer.New(s, sink, cfg.Sync.Interval, logger)

	cronScheduler := scheduler.NewCronScheduler(logger)
	if _, err := cronScheduler.AddJob("notification-scan", cfg.Scheduler.NotificationSpec,
		scheduler.NotificationScanJob(s, logger)); err != nil {
		return err
	}
	if cfg.Scheduler.SuggestionSpec != "" && cfg.Assist.BaseURL != "" {
		client := assist.NewClient(cfg.Assist.BaseURL, cfg.Assist.Timeout, logger)
		guard := assist.NewGuard(client, client, logger)
		if _, err := cronScheduler.AddJob("suggestion-scan", cfg.Scheduler.SuggestionSpec,
			scheduler.SuggestionScanJob(guard, s, cfg.Assist.Accounts, logger)); err != nil {
			return err
		}
	}

	if cfg.Monitor.StatsSpec != "" {
		monitorOpts := []monitor.Option{monitor.WithSyncStatus(storeSyncer)}
		if publisher != nil {
			monitorOpts = append(monitorOpts, monitor.WithPublisher(publisher))
		}
		collector := monitor.NewStatsCollector(s, logger, monitorOpts...)
		alerts := monitor.NewAlertManager(s, logger)
		for _, rule := range monitor.DefaultRules(cfg.Monitor.OverdueThreshold, cfg.Monitor.SyncFailureThreshold) {
			if err := alerts.AddRule(rule); err != nil {
				return fmt.Errorf("failed to add alert rule: %w", err)
			}
		}
		if _, err := cronScheduler.AddJob("stats", cfg.Monitor.StatsSpec,
			scheduler.StatsJob(collector, alerts, logger)); err != nil {
			return err
		}
	}

	// Pick up anything that became overdue while the process was down
	s.GenerateNotifications()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		storeSyncer.Start(gctx)
		<-gctx.Done()
		storeSyncer.Stop()

		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storeSyncer.Flush(flushCtx); err != nil {
			logger.Error("Failed to flush store on shutdown", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		cronScheduler.Start(gctx)
		<-gctx.Done()
		cronScheduler.Stop()
		return nil
	})

	logger.Info("Server started",
		zap.String("app", cfg.App.Name),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("nats", cfg.NATS.Enabled),
		zap.Bool("email", cfg.Notify.Email.Enabled),
		zap.Int("tasks", len(s.Tasks())))

	return g.Wait()
}

func connectNATS(cfg *config.Config, logger *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(cfg.App.Name),
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait),
		nats.Timeout(cfg.NATS.ConnectTimeout),
		nats.PingInterval(20 * time.Second),
		nats.MaxPingsOutstanding(5),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			logger.Error("NATS connection error",
				zap.String("subject", subject),
				zap.Error(err))
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected",
				zap.String("url", nc.ConnectedUrl()))
		}),
	}

	// Connect with retry
	var nc *nats.Conn
	var err error
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		nc, err = nats.Connect(cfg.NATS.URL, opts...)
		if err == nil {
			break
		}
		logger.Warn("Failed to connect to NATS, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err))
		time.Sleep(time.Second * time.Duration(i+1))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS after retries: %w", err)
	}

	logger.Info("Connected to NATS successfully",
		zap.String("url", nc.ConnectedUrl()))
	return nc, nil
}
