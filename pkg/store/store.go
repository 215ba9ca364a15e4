package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrMalformedLog marks a daily log file that cannot be used as history.
var ErrMalformedLog = errors.New("malformed daily log")

const (
	dailyLogsDir   = "daily_logs"
	dailyLogPrefix = "daily_"
	dailyLogExt    = ".json"
	fileDateLayout = "20060102"
)

// Store manages the filesystem-backed daily logs of one project.
type Store struct {
	Root string // project directory
}

// NewStore creates a Store rooted at the given project directory.
// It creates the daily_logs directory if it doesn't exist.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, dailyLogsDir), 0755); err != nil {
		return nil, fmt.Errorf("creating daily logs directory: %w", err)
	}
	return &Store{Root: root}, nil
}

// LogsDir returns the path to the daily_logs directory.
func (s *Store) LogsDir() string {
	return filepath.Join(s.Root, dailyLogsDir)
}

// LogPath returns the file path of the log for the day containing t.
func (s *Store) LogPath(t time.Time) string {
	return filepath.Join(s.LogsDir(), dailyLogPrefix+t.Format(fileDateLayout)+dailyLogExt)
}

// LoadDailyLog reads the log for the day containing t.
// A missing file is not an error: it returns (nil, nil).
func (s *Store) LoadDailyLog(t time.Time) (*DailyLog, error) {
	path := s.LogPath(t)
	log, err := ReadDailyLogFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return log, err
}

// ReadDailyLogFile reads and decodes a single daily log file.
func ReadDailyLogFile(path string) (*DailyLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	log, err := DecodeDailyLog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return log, nil
}

// DecodeDailyLog parses a daily log document.
func DecodeDailyLog(data []byte) (*DailyLog, error) {
	var log DailyLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	if log.GoalStatus == nil {
		log.GoalStatus = make(map[string]*GoalStatus)
	}
	var err error
	for _, field := range []*[]json.RawMessage{&log.CompletedTasks, &log.Insights, &log.NextDayTodos} {
		if *field, err = compactAll(*field); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
		}
	}
	return &log, nil
}

// compactAll strips insignificant whitespace that indented encoding adds to
// opaque entries, so a load/save cycle is stable.
func compactAll(items []json.RawMessage) ([]json.RawMessage, error) {
	for i, raw := range items {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		items[i] = json.RawMessage(buf.Bytes())
	}
	return items, nil
}

// SaveDailyLog writes the log to disk atomically via a temporary file.
func (s *Store) SaveDailyLog(log *DailyLog) error {
	if err := os.MkdirAll(s.LogsDir(), 0755); err != nil {
		return fmt.Errorf("creating daily logs directory: %w", err)
	}
	if err := WriteJSON(s.LogPath(log.Date.Time), log); err != nil {
		return fmt.Errorf("saving daily log: %w", err)
	}
	return nil
}

// WriteJSON encodes v as indented JSON and replaces path with it through a
// temporary file in the same directory. The directory must exist.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadJSON decodes path into v. A missing file leaves v untouched and
// reports false.
func ReadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

// LogFile is a daily log file on disk together with the date in its name.
type LogFile struct {
	Path string
	Date time.Time
}

// ListDailyLogs returns every daily_*.json file sorted by date.
// Files whose name does not carry a valid date are returned as errors
// alongside the usable entries.
func (s *Store) ListDailyLogs() ([]LogFile, []error) {
	entries, err := os.ReadDir(s.LogsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading daily logs directory: %w", err)}
	}

	var files []LogFile
	var bad []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, dailyLogPrefix) || !strings.HasSuffix(name, dailyLogExt) {
			continue
		}
		token := strings.TrimSuffix(strings.TrimPrefix(name, dailyLogPrefix), dailyLogExt)
		date, err := time.ParseInLocation(fileDateLayout, token, time.Local)
		if err != nil {
			bad = append(bad, fmt.Errorf("%w: %s: bad date in file name", ErrMalformedLog, name))
			continue
		}
		files = append(files, LogFile{Path: filepath.Join(s.LogsDir(), name), Date: date})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Date.Before(files[j].Date)
	})
	return files, bad
}

// ListDailyLogDates returns the dates of all persisted logs in ascending order.
func (s *Store) ListDailyLogDates() ([]time.Time, error) {
	files, bad := s.ListDailyLogs()
	dates := make([]time.Time, 0, len(files))
	for _, f := range files {
		dates = append(dates, f.Date)
	}
	return dates, errors.Join(bad...)
}
