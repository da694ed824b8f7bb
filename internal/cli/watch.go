package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/docsift/docsift/internal/ingest"
	"github.com/docsift/docsift/internal/logger"
)

// debounceWindow batches bursts of staging writes into one re-ingest.
const debounceWindow = 2 * time.Second

func newWatchCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the staging directory and ingest new fragments",
		Long: `Monitor the staging directory for new or changed fragments and ingest
them automatically. Fragments already indexed in the current session are
not re-embedded. Press Ctrl+C to stop watching.

Examples:
  docsift watch
  docsift watch --data ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := openSession(ctx, "watch")
			if err != nil {
				return err
			}
			defer sess.close()

			dir := dataDir
			if dir == "" {
				dir = sess.cfg.Storage.DataDir
			}

			watcher, cleanup, err := setupStagingWatcher(dir)
			if err != nil {
				return err
			}
			defer cleanup()

			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watching staging directory: %s\n", dir)
				fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
			}

			return runWatchLoop(ctx, sess, watcher, dir)
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data", "d", "", "staging directory (default from config)")

	return cmd
}

// setupStagingWatcher creates a watcher over the staging root and its
// per-kind subdirectories.
func setupStagingWatcher(dir string) (*fsnotify.Watcher, func(), error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("staging directory does not exist: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dirs := []string{
		dir,
		filepath.Join(dir, ingest.TextDir),
		filepath.Join(dir, ingest.TableDir),
		filepath.Join(dir, ingest.ImageDir),
		filepath.Join(dir, ingest.PageImageDir),
	}
	for _, d := range dirs {
		if _, err := os.Stat(d); err != nil {
			continue // kind directory may not exist yet
		}
		if err := watcher.Add(d); err != nil {
			cleanupWatcher(watcher)
			return nil, nil, fmt.Errorf("failed to watch %s: %w", d, err)
		}
	}

	cleanup := func() { cleanupWatcher(watcher) }
	return watcher, cleanup, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// runWatchLoop waits for staging changes and re-ingests, with signal
// handling for graceful shutdown.
func runWatchLoop(ctx context.Context, sess *session, watcher *fsnotify.Watcher, dir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	// Fragments indexed in this session, by staging path.
	indexed := make(map[string]bool)
	for _, item := range sess.store.Items() {
		indexed[item.Path] = true
	}

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			// New kind directory appearing gets watched too.
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if err := watcher.Add(event.Name); err != nil && isVerbose() {
					fmt.Fprintf(os.Stderr, "Warning: failed to watch %s: %v\n", event.Name, err)
				}
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(debounceWindow)
			pending = debounce.C

		case <-pending:
			pending = nil
			if err := ingestNewFragments(ctx, sess, dir, indexed); err != nil {
				sess.log.Error("ingest on change failed", logger.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
			}
		}
	}
}

// ingestNewFragments scans the staging directory and ingests only
// fragments not seen in this session, then persists the snapshot.
func ingestNewFragments(ctx context.Context, sess *session, dir string, indexed map[string]bool) error {
	items, err := ingest.NewScanner(dir).Scan()
	if err != nil {
		return err
	}

	fresh := items[:0]
	for _, item := range items {
		if !indexed[item.Path] {
			fresh = append(fresh, item)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	pipeline := ingest.NewPipeline(sess.store, sess.provider, sess.log.WithComponent("ingest"))
	report, err := pipeline.Run(ctx, fresh)
	if err != nil {
		return err
	}

	for _, result := range report.Results {
		if result.Err == nil {
			indexed[result.Path] = true
		}
	}

	if report.Added > 0 {
		if err := sess.save(); err != nil {
			return fmt.Errorf("failed to persist snapshot: %w", err)
		}
	}

	fmt.Printf("[%s] ingested %d new fragments (%d skipped)\n",
		time.Now().Format("15:04:05"), report.Added, report.Skipped)
	return nil
}
