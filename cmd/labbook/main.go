package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/labbook/pkg/config"
	"github.com/stefanpenner/labbook/pkg/console"
	"github.com/stefanpenner/labbook/pkg/project"
	"github.com/stefanpenner/labbook/pkg/research"
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

func main() {
	os.Exit(execute(newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:]))
}

// app carries the global flags and the collaborators built from them.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	dirFlag     string
	projectFlag string
	jsonOut     bool
	verbose     bool

	dataDir  string
	cfg      *config.Config
	logger   *slog.Logger
	projects *project.Manager
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: in, out: out, errOut: errOut, now: time.Now}
}

// execute runs the command line and returns the process exit code.
func execute(a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, tracker.ErrCancelled):
		fmt.Fprintln(a.out, "Operation cancelled.")
		return 0
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "labbook",
		Short: "Research journal with daily goals",
		Long: `labbook keeps a per-project research journal: daily goals with status
and progress notes, carry-over of unfinished goals, insights, research
ideas, notebook page references, experiments and digests.

Run without a subcommand to open today's goal board.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBoard()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.dirFlag, "dir", "", "projects root (default $LABBOOK_DIR or the OS data directory)")
	flags.StringVarP(&a.projectFlag, "project", "p", "", "project to work in (default $LABBOOK_PROJECT or default_project)")
	flags.BoolVar(&a.jsonOut, "json", false, "print machine-readable JSON")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		a.projectsCmd(),
		a.newProjectCmd(),
		a.startCmd(),
		a.reviewCmd(),
		a.carryOverCmd(),
		a.summaryCmd(),
		a.updateCmd(),
		a.historyCmd(),
		a.digestCmd(),
		a.insightCmd(),
		a.todoCmd(),
		a.ideaCmd(),
		a.staleCmd(),
		a.noteCmd(),
		a.experimentCmd(),
		a.boardCmd(),
		a.syncCmd(),
		a.initCmd(),
	)
	return root
}

// setup resolves the data directory, config and logger.
func (a *app) setup() error {
	a.dataDir = config.ResolveDataDir(a.dirFlag)

	cfg, err := config.Load(a.dataDir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	a.projects, err = project.NewManager(a.dataDir)
	if err != nil {
		return err
	}
	a.logger.Debug("using data directory", "dir", a.dataDir)
	return nil
}

// workspace is an opened project with its tracker and research journal.
type workspace struct {
	project  project.Project
	store    *store.Store
	console  *console.Console
	tracker  *tracker.Tracker
	research *research.Journal
}

func (a *app) open() (*workspace, error) {
	name := a.cfg.Project(a.projectFlag)
	if name == "" {
		return nil, fmt.Errorf("%w: pass --project or set default_project in %s", project.ErrProjectNotFound, config.FileName)
	}
	p, err := a.projects.Open(name)
	if err != nil {
		return nil, err
	}
	s, err := store.NewStore(p.Path)
	if err != nil {
		return nil, err
	}
	con := console.New(a.in, a.out)
	logger := a.logger.With("project", p.Slug)
	tr := tracker.New(s, con,
		tracker.WithClock(a.now),
		tracker.WithLogger(logger),
		tracker.WithTimeFormat(a.cfg.TimeFormat),
	)
	j := research.New(p.Path, research.WithClock(a.now), research.WithLogger(logger))
	return &workspace{project: p, store: s, console: con, tracker: tr, research: j}, nil
}

// JSON helpers

func (a *app) outputJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
