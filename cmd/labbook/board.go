package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	gsync "github.com/stefanpenner/labbook/pkg/sync"
	"github.com/stefanpenner/labbook/pkg/tui"
)

func (a *app) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open today's goal board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBoard()
		},
	}
}

func (a *app) runBoard() error {
	ws, err := a.open()
	if err != nil {
		return err
	}

	var syncFn func() error
	if gsync.IsRepo(a.dataDir) {
		syncFn = func() error { return gsync.SyncRepo(a.dataDir, io.Discard, a.now()) }
	}

	m := tui.NewModel(ws.tracker, ws.project.Name, syncFn)
	p := tea.NewProgram(m, tea.WithAltScreen())

	cleanup, err := tui.StartWatcher(ws.store.LogsDir(), a.logger, p)
	if err != nil {
		a.logger.Warn("file watcher failed", "err", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Commit, pull and push the projects root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gsync.SyncRepo(a.dataDir, a.out, a.now())
		},
	}
}

func (a *app) initCmd() *cobra.Command {
	var remote string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Make the projects root a git repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gsync.InitRepo(a.dataDir, remote, a.out)
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "git remote URL for origin")
	return cmd
}
