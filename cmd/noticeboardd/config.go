package main

import (
	"noticeboard-backend/services/noticeboard"
	"noticeboard-backend/services/noticeboard/scheduler"
)

type DaemonConfig struct {
	Scraper   noticeboard.Config `json:"scraper"`
	Scheduler scheduler.Config   `json:"scheduler"`

	// directory the section snapshots are written to
	DataDir string `json:"data_dir"`
	// sqlite database holding run history
	RunsDb string `json:"runs_db"`
	// scrape immediately on startup instead of waiting for the first
	// cron tick
	RunOnStartup bool `json:"run_on_startup"`
	// exit with a non-zero code when a run exhausts its retries, for
	// supervisors that restart on failure
	ExitOnFailure bool `json:"exit_on_failure"`

	Debug bool `json:"debug"`
}

func defaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		Scraper:      noticeboard.DefaultConfig(),
		Scheduler:    scheduler.DefaultConfig(),
		DataDir:      "data",
		RunsDb:       "data/runs.db",
		RunOnStartup: true,
	}
}
