package research

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
	gsync "github.com/stefanpenner/labbook/pkg/sync"
)

var (
	ErrEmptyField         = errors.New("value is required")
	ErrNoSuchIdea         = errors.New("no idea with that id")
	ErrInvalidIdeaStatus  = errors.New("invalid idea status")
	ErrInvalidNoteType    = errors.New("invalid note type")
	ErrInvalidPage        = errors.New("page number must be positive")
	ErrNoActiveExperiment = errors.New("no active experiment to conclude")
)

const (
	ideasDir        = "ideas"
	ideasFile       = "idea_summaries.json"
	notesDir        = "paper_notes"
	notesFile       = "note_references.json"
	experimentsDir  = "experiments"
	experimentsFile = "experiments.json"
	activeFile      = "active.json"
)

// unknownVersion is recorded when the project is not under git.
const unknownVersion = "Git version unavailable"

// Journal stores the research artifacts of one project: ideas, paper note
// references and experiments. Each kind lives in its own subdirectory of
// the project.
type Journal struct {
	root        string
	now         func() time.Time
	logger      *slog.Logger
	codeVersion func(dir string) (string, error)
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) { j.logger = l }
}

// WithCodeVersion overrides how experiments look up the code version.
func WithCodeVersion(fn func(dir string) (string, error)) Option {
	return func(j *Journal) { j.codeVersion = fn }
}

// New creates a Journal rooted at a project directory.
func New(projectDir string, opts ...Option) *Journal {
	j := &Journal{
		root:        projectDir,
		now:         time.Now,
		logger:      slog.Default(),
		codeVersion: gsync.Head,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) path(dir, file string) string {
	return filepath.Join(j.root, dir, file)
}

func (j *Journal) load(dir, file string, v any) error {
	if _, err := store.ReadJSON(j.path(dir, file), v); err != nil {
		return err
	}
	return nil
}

func (j *Journal) save(dir, file string, v any) error {
	if err := os.MkdirAll(filepath.Join(j.root, dir), 0755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}
	if err := store.WriteJSON(j.path(dir, file), v); err != nil {
		return err
	}
	j.logger.Debug("saved research data", "file", filepath.Join(dir, file))
	return nil
}

// wholeDays counts the complete days between from and to.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
