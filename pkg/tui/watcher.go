package tui

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// WatchLogs watches a daily_logs directory and calls notify once per burst
// of .json changes. The returned func stops the watcher.
func WatchLogs(dir string, logger *slog.Logger, notify func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Temp files from atomic saves end in .tmp and are ignored.
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, notify)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("watcher error", "err", err)

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}

// StartWatcher forwards daily log changes to the program as FileChangedMsg.
func StartWatcher(dir string, logger *slog.Logger, program *tea.Program) (func(), error) {
	return WatchLogs(dir, logger, func() { program.Send(FileChangedMsg{}) })
}
