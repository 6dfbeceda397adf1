// Package scheduler decides when scrape runs happen: windows and
// minimum intervals gate them, a cron loop triggers them, failed runs
// are retried and alerted on.
package scheduler

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"noticeboard-backend/lib/timezone"
)

// Window is an allowed scrape period expressed in local wall-clock
// time, e.g. {Start: "06:00", End: "22:00", IntervalMinutes: 60}.
// A window with End before Start wraps past midnight.
type Window struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// Gate answers "may a run start now". Decisions combine the
// configured windows with the time of the most recent run attempt
// (successful or not), which is persisted in a sidecar stamp file so
// restarts don't reset the interval.
type Gate struct {
	windows   []Window
	stampPath string
}

func NewGate(windows []Window, stampPath string) Gate {
	return Gate{windows: windows, stampPath: stampPath}
}

func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	return h*60 + m, nil
}

func (w Window) contains(clockMinutes int) bool {
	start, err := parseClock(w.Start)
	if err != nil {
		return false
	}
	end, err := parseClock(w.End)
	if err != nil {
		return false
	}
	if end < start {
		// overnight window, e.g. 22:00 - 06:00
		return clockMinutes >= start || clockMinutes < end
	}
	return clockMinutes >= start && clockMinutes < end
}

// LastRun reads the stamp file. ok is false when no run has ever been
// recorded.
func (g Gate) LastRun() (time.Time, bool) {
	data, err := os.ReadFile(g.stampPath)
	if err != nil {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

func (g Gate) RecordRun(t time.Time) error {
	return os.WriteFile(g.stampPath, []byte(strconv.FormatInt(t.Unix(), 10)), 0644)
}

// ShouldRun reports whether a run may start at now, with a short
// human-readable reason when it may not. With no windows configured
// every trigger is allowed through.
func (g Gate) ShouldRun(now time.Time) (bool, string) {
	if len(g.windows) == 0 {
		return true, ""
	}

	local := now.In(timezone.Location)
	clockMinutes := local.Hour()*60 + local.Minute()

	for _, w := range g.windows {
		if !w.contains(clockMinutes) {
			continue
		}
		last, ok := g.LastRun()
		if !ok {
			return true, ""
		}
		interval := time.Duration(w.IntervalMinutes) * time.Minute
		if since := now.Sub(last); since < interval {
			return false, fmt.Sprintf("last run %s ago, window interval is %s",
				since.Round(time.Second), interval)
		}
		return true, ""
	}
	return false, "outside scrape windows"
}
