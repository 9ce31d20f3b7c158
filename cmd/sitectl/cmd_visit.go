package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hemkey/internal/agent"
	"hemkey/internal/agent/apiclient"
)

var (
	visitURL      string
	visitSessions int
	visitDwell    time.Duration
	visitCacheDir string
	visitTimeout  time.Duration
)

// visitCmd simulates visitors against a running site
var visitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Simulate visitor sessions against a running site",
	Long: `Run visitor counter widgets against a running site, one per session.

Each session reads the count, waits --dwell for the widget to scroll into
view, then increments at most once. With --cache each session keeps its
state in <dir>/session-<n>.json, so running the command again with the same
directory replays returning visitors and must not increment again.`,
	RunE: runVisit,
}

func init() {
	visitCmd.Flags().StringVar(&visitURL, "url", "", "site base URL (default BASE_URL)")
	visitCmd.Flags().IntVar(&visitSessions, "sessions", 1, "number of concurrent sessions")
	visitCmd.Flags().DurationVar(&visitDwell, "dwell", 500*time.Millisecond, "delay before the widget becomes visible")
	visitCmd.Flags().StringVar(&visitCacheDir, "cache", "", "directory for per-session cache files (default in memory)")
	visitCmd.Flags().DurationVar(&visitTimeout, "timeout", 30*time.Second, "overall time limit")
}

type visitResult struct {
	session int
	view    agent.View
}

func runVisit(cmd *cobra.Command, args []string) error {
	if visitURL == "" {
		visitURL = cfg.BaseURL
	}
	if visitSessions < 1 {
		return fmt.Errorf("--sessions must be at least 1")
	}

	client, err := apiclient.New(visitURL, cfg.CounterTimeout)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, visitTimeout)
	defer cancel()

	var mu sync.Mutex
	results := make([]visitResult, 0, visitSessions)

	g, ctx := errgroup.WithContext(ctx)
	for i := 1; i <= visitSessions; i++ {
		g.Go(func() error {
			cache, err := sessionCache(i)
			if err != nil {
				return err
			}

			a := agent.New(client, cache, agent.WithObserver(func(v agent.View) {
				slog.Debug("visitor session", "session", i, "phase", v.Phase, "count", v.Count)
			}))

			visible := make(chan bool, 1)
			timer := time.AfterFunc(visitDwell, func() { visible <- true })
			defer timer.Stop()

			if err := a.Run(ctx, visible); err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}

			mu.Lock()
			results = append(results, visitResult{session: i, view: a.View()})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var highest int64
	degraded := 0
	for _, r := range results {
		status := "ok"
		if r.view.Err != "" {
			status = r.view.Err
			degraded++
		}
		fmt.Fprintf(out, "session %d: count %d, incremented %v, %s\n",
			r.session, r.view.Count, r.view.Incremented, status)
		if r.view.Count > highest {
			highest = r.view.Count
		}
	}
	fmt.Fprintf(out, "%d sessions, %d degraded, highest count seen %d\n", len(results), degraded, highest)
	return nil
}

func sessionCache(session int) (agent.Cache, error) {
	if visitCacheDir == "" {
		return agent.NewMemoryCache(), nil
	}
	return agent.NewFileCache(filepath.Join(visitCacheDir, fmt.Sprintf("session-%d.json", session)))
}
