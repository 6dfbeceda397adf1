package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"noticeboard-backend/lib/configutil"
	"noticeboard-backend/services/noticeboard"

	"dario.cat/mergo"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "noticeboard-cli",
	Short: "noticeboard-cli scrapes the club site on demand and inspects snapshot state.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config mirrors the daemon's config file so the CLI can be pointed
// at the same deployment directory.
type Config struct {
	Scraper noticeboard.Config `json:"scraper"`
	DataDir string             `json:"data_dir"`
	RunsDb  string             `json:"runs_db"`
}

func readConfig() (Config, error) {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if errors.Is(err, os.ErrNotExist) {
		config = Config{}
	} else if err != nil {
		return Config{}, err
	}
	err = mergo.Merge(&config, Config{
		Scraper: noticeboard.DefaultConfig(),
		DataDir: "data",
		RunsDb:  "data/runs.db",
	})
	return config, err
}
