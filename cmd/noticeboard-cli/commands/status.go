package commands

import (
	"fmt"
	"os"
	"time"

	"noticeboard-backend/lib/serviceutil"
	"noticeboard-backend/lib/sqliteutil"
	"noticeboard-backend/services/noticeboard"
	"noticeboard-backend/services/noticeboard/runstore"
	"noticeboard-backend/services/noticeboard/runstore/db"
	"noticeboard-backend/services/noticeboard/snapshot"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusRuns *int

func init() {
	statusRuns = statusCmd.Flags().Int("runs", 10, "How many recent runs to show.")
	rootCmd.AddCommand(statusCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func healthLabel(age time.Duration) string {
	switch {
	case age == snapshot.AgeUnknown:
		return "missing"
	case age > snapshot.UnhealthyAfter:
		return "unhealthy"
	case age > snapshot.StaleAfter:
		return "stale"
	default:
		return "fresh"
	}
}

func formatAge(age time.Duration) string {
	if age == snapshot.AgeUnknown {
		return "-"
	}
	return age.Round(time.Second).String()
}

var statusCmd = &cobra.Command{
	Use:   "status [--runs <n>]",
	Short: "Shows snapshot freshness and recent run history.",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := readConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		store := snapshot.NewStore(config.DataDir)

		t := newTable()
		t.AppendHeader(table.Row{"Snapshot", "Age", "Health"})
		for _, name := range []string{
			noticeboard.GalleryFile,
			noticeboard.EventsFile,
			noticeboard.NewsFile,
			noticeboard.SponsorsFile,
		} {
			age := store.Age(name)
			t.AppendRow(table.Row{name, formatAge(age), healthLabel(age)})
		}
		t.Render()

		if _, err := os.Stat(config.RunsDb); err != nil {
			fmt.Println("no run history database yet")
			return
		}
		runsDb, err := sqliteutil.OpenDB(db.Schema, config.RunsDb)
		if err != nil {
			serviceutil.Fatal("failed to open runs database", err)
		}
		defer runsDb.Close()

		runs, err := runstore.NewStore(runsDb).Recent(cmd.Context(), *statusRuns)
		if err != nil {
			serviceutil.Fatal("failed to read run history", err)
		}

		t = newTable()
		t.AppendHeader(table.Row{"Started", "Duration", "Success", "Sections OK", "Attempts", "Error"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.StartedAt.Format(time.RFC3339),
				r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
				r.Success,
				r.SectionsOK,
				r.Attempts,
				r.Error,
			})
		}
		t.Render()
	},
}
