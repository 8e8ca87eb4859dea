package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/speedwagon-io/crowdwatch/internal/collector"
	"github.com/speedwagon-io/crowdwatch/internal/collector/adapters"
	"github.com/speedwagon-io/crowdwatch/internal/config"
	"github.com/speedwagon-io/crowdwatch/internal/dashboard"
	"github.com/speedwagon-io/crowdwatch/internal/lib/logger/sl"
	"github.com/speedwagon-io/crowdwatch/internal/store"
	"github.com/speedwagon-io/crowdwatch/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	log.Info("starting crowdwatch",
		slog.String("env", cfg.Env),
		slog.String("source_url", cfg.Source.URL),
		slog.Int("port", cfg.HTTP.Port),
	)

	var archive *store.SQLiteStore
	if cfg.Store.Enabled {
		var err error
		archive, err = store.NewSQLiteStore(log, cfg.Store.Path)
		if err != nil {
			log.Error("failed to open snapshot store", sl.Err(err))
			os.Exit(1)
		}
		defer archive.Close()

		logPreviousSnapshot(log, archive)
	}

	source := adapters.NewWaitTimesAdapter(log, cfg.Source.URL, &http.Client{Timeout: cfg.Source.Timeout})

	var loaderArchive collector.Archive
	if archive != nil {
		loaderArchive = archive
	}
	loader := collector.NewLoader(log, source, cfg.Source.URL, loaderArchive, cfg.Store.MaxAge, time.Now)

	snapshot, err := loader.Load(context.Background())
	if closeErr := source.Close(); closeErr != nil {
		log.Error("failed to close source", sl.Err(closeErr))
	}
	if err != nil {
		log.Error("failed to load snapshot", sl.Err(err))
		os.Exit(1)
	}

	page, err := dashboard.NewBuilder(log, cfg.Page).Build(snapshot)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		os.Exit(1)
	}

	html, err := page.Render()
	if err != nil {
		log.Error("failed to render dashboard", sl.Err(err))
		os.Exit(1)
	}

	log.Info("dashboard built",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("cards", len(page.Cards)),
	)

	server := web.NewServer(log, cfg.HTTP, cfg.Page.AssetsDir, html, snapshot)
	server.AddChecker(web.NewSnapshotHealthChecker(snapshot))
	if archive != nil {
		server.AddChecker(web.NewStoreHealthChecker(archive.Count))
	}

	if err := server.Start(); err != nil {
		log.Error("failed to start dashboard server", sl.Err(err))
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop dashboard server", sl.Err(err))
	}

	log.Info("crowdwatch stopped")
}

func logPreviousSnapshot(log *slog.Logger, archive *store.SQLiteStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prev, err := archive.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		log.Warn("failed to read previous snapshot", sl.Err(err))
		return
	}

	log.Info("previous snapshot",
		slog.String("snapshot_id", prev.ID),
		slog.Time("taken_at", prev.TakenAt),
		slog.Int("sensors", len(prev.Sensors)),
		slog.Bool("degraded", prev.Degraded),
	)
}
