package research

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newJournal(t *testing.T) (*Journal, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 5, 9, 30, 0, 0, time.UTC)}
	j := New(t.TempDir(),
		WithClock(c.now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithCodeVersion(func(string) (string, error) { return "", errors.New("not a repo") }),
	)
	return j, c
}
