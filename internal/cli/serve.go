package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/micro-ha/nocontact/internal/activitysync"
	"github.com/micro-ha/nocontact/internal/config"
	httpapi "github.com/micro-ha/nocontact/internal/http"
	"github.com/micro-ha/nocontact/internal/http/handlers"
	"github.com/micro-ha/nocontact/internal/ingest/mqtt"
	"github.com/micro-ha/nocontact/internal/logging"
	"github.com/micro-ha/nocontact/internal/poller"
	"github.com/micro-ha/nocontact/internal/realtime"
	"github.com/micro-ha/nocontact/internal/repository/sqldb"
	alertservice "github.com/micro-ha/nocontact/internal/services/alert"
	contactservice "github.com/micro-ha/nocontact/internal/services/contact"
	deviceservice "github.com/micro-ha/nocontact/internal/services/device"
	profileservice "github.com/micro-ha/nocontact/internal/services/profile"
)

const lockWait = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and background workers",
	Long: `Start the API, the status sweeper, the realtime hub and any configured
activity ingesters (MQTT subscriber, backend sync).

Configuration comes from CONFIG_FILE and environment variables.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel)

	if cfg.IsSQLite() {
		if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
			return fmt.Errorf("create db directory: %w", err)
		}
		unlock, err := acquireLock(ctx, cfg.LockPath())
		if err != nil {
			return err
		}
		defer unlock()
	}

	db, err := sqldb.Open(ctx, cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer db.Close()

	devices := deviceservice.New(sqldb.NewDeviceRepository(db), logger)
	contacts := contactservice.New(sqldb.NewContactRepository(db), logger)
	profiles := profileservice.New(sqldb.NewProfileRepository(db), logger)
	alerts := alertservice.New(sqldb.NewAlertRepository(db), logger)

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	sweeper := poller.New(devices, hub, cfg.StatusSweepInterval, logger)
	go sweeper.Run(ctx)
	sweeper.TriggerRefresh()

	if cfg.MQTT.Enabled() {
		subscriber := mqtt.NewSubscriber(cfg.MQTT, devices, logger, sweeper.TriggerRefresh)
		if err := subscriber.Start(ctx); err != nil {
			logger.Warn("mqtt ingest disabled", "err", err)
		} else {
			defer subscriber.Stop()
		}
	}

	if cfg.Backend.Enabled() {
		manager := activitysync.NewManager(activitysync.NewClient(cfg.Backend), devices, cfg.Backend.SyncInterval(), logger)
		go manager.Run(ctx, sweeper.TriggerRefresh)
	} else {
		logger.Info("backend activity sync disabled")
	}

	api := handlers.New(handlers.Deps{
		Devices:   devices,
		Contacts:  contacts,
		Profiles:  profiles,
		Alerts:    alerts,
		Poller:    sweeper,
		Realtime:  hub,
		DB:        db.SQLDB(),
		Logger:    logger,
		StaticDir: cfg.FrontendDist,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(api, cfg.DefaultUserID),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr, "driver", db.Driver())
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// acquireLock keeps a second server from opening the same SQLite file.
func acquireLock(ctx context.Context, path string) (func(), error) {
	lock := flock.New(path)
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("lock %s: held by another process", path)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			slog.Default().Warn("release lock failed", "path", path, "err", err)
		}
	}, nil
}
