package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"noticeboard-backend/lib/configutil"
	"noticeboard-backend/lib/fetch"
	"noticeboard-backend/lib/serviceutil"
	"noticeboard-backend/lib/sqliteutil"
	"noticeboard-backend/lib/telemetry"
	"noticeboard-backend/services/noticeboard"
	"noticeboard-backend/services/noticeboard/runstore"
	"noticeboard-backend/services/noticeboard/runstore/db"
	"noticeboard-backend/services/noticeboard/scheduler"
	"noticeboard-backend/services/noticeboard/snapshot"

	"dario.cat/mergo"
)

func main() {
	ctx := serviceutil.SignalContext()

	config, err := configutil.ReadConfig[DaemonConfig]("config.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no config.json5 found, using defaults")
		config = DaemonConfig{}
		err = nil
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if err := mergo.Merge(&config, defaultDaemonConfig()); err != nil {
		serviceutil.Fatal("failed to apply config defaults", err)
	}

	telemetry.InitSlog(config.Debug)
	tel, err := telemetry.SetupFromEnv(ctx, "noticeboardd")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	client, err := fetch.NewClient(fetch.Options{
		BaseURL:  config.Scraper.BaseUrl,
		Timeout:  time.Duration(config.Scraper.TimeoutSeconds) * time.Second,
		DebugDir: config.Scraper.DebugDir,
	})
	if err != nil {
		serviceutil.Fatal("failed to create fetch client", err)
	}

	store := snapshot.NewStore(config.DataDir)
	runner, err := noticeboard.NewRunner(config.Scraper, client, store)
	if err != nil {
		serviceutil.Fatal("failed to create runner", err)
	}

	runsDb, err := sqliteutil.OpenDB(db.Schema, config.RunsDb)
	if err != nil {
		serviceutil.Fatal("failed to open runs database", err)
	}
	defer runsDb.Close()

	sched := scheduler.NewScheduler(config.Scheduler, runner, runstore.NewStore(runsDb))
	if config.ExitOnFailure {
		sched.OnResult = func(result scheduler.RunResult) {
			if !result.Success {
				serviceutil.Fatal("scrape run exhausted retries", result.Err)
			}
		}
	}
	if err := sched.Start(ctx); err != nil {
		serviceutil.Fatal("failed to start scheduler", err)
	}
	defer sched.Stop()

	slog.Info("noticeboardd started",
		"base_url", config.Scraper.BaseUrl,
		"data_dir", config.DataDir,
		"cron", config.Scheduler.Cron)

	if config.RunOnStartup {
		go func() {
			_, err := sched.Trigger(ctx, false)
			if err != nil && !errors.Is(err, scheduler.ErrGated) {
				slog.Error("startup run failed to trigger", "err", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")
}
