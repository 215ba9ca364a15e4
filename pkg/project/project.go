package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("a project with this name already exists")
	ErrInvalidName     = errors.New("invalid project name")
)

const metadataFile = "project.yaml"

// Subdirs are created in every new project. daily_logs marks a directory
// as a project during discovery.
var Subdirs = []string{"daily_logs", "experiments", "ideas", "paper_notes"}

// Metadata is persisted in project.yaml.
type Metadata struct {
	Name    string    `yaml:"project_name"`
	Created time.Time `yaml:"created_date"`
}

// Project is a discovered project directory.
type Project struct {
	Name     string    `json:"name"` // display name from metadata, else the directory name
	Slug     string    `json:"slug"` // directory name
	Path     string    `json:"path"`
	Created  time.Time `json:"created,omitempty"`
	Modified time.Time `json:"modified"`
}

// Manager manages the projects root.
type Manager struct {
	Root string
	now  func() time.Time
}

// NewManager creates a Manager, creating root if needed.
func NewManager(root string) (*Manager, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating projects directory: %w", err)
	}
	return &Manager{Root: root, now: time.Now}, nil
}

// Slugify reduces a display name to a safe directory name.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_"))
}

// List returns all projects sorted by directory name.
func (m *Manager) List() ([]Project, error) {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}

	var projects []Project
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p, err := m.load(e.Name())
		if err != nil {
			continue // not a project
		}
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Slug < projects[j].Slug })
	return projects, nil
}

func (m *Manager) load(slug string) (Project, error) {
	path := filepath.Join(m.Root, slug)
	if info, err := os.Stat(filepath.Join(path, "daily_logs")); err != nil || !info.IsDir() {
		return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, slug)
	}

	p := Project{Name: slug, Slug: slug, Path: path, Modified: info.ModTime()}
	if data, err := os.ReadFile(filepath.Join(path, metadataFile)); err == nil {
		var meta Metadata
		if yaml.Unmarshal(data, &meta) == nil {
			if meta.Name != "" {
				p.Name = meta.Name
			}
			p.Created = meta.Created
		}
	}
	return p, nil
}

// Open finds a project by directory name or display name.
func (m *Manager) Open(name string) (Project, error) {
	if name == "" {
		return Project{}, fmt.Errorf("%w: no project selected", ErrProjectNotFound)
	}
	if p, err := m.load(Slugify(name)); err == nil {
		return p, nil
	}
	projects, err := m.List()
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.Name == name || p.Slug == name {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
}

// Create makes a new project directory with its standard layout.
func (m *Manager) Create(name string) (Project, error) {
	slug := Slugify(name)
	if slug == "" {
		return Project{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	path := filepath.Join(m.Root, slug)
	if _, err := os.Stat(path); err == nil {
		return Project{}, fmt.Errorf("%w: %s", ErrProjectExists, slug)
	}

	for _, sub := range Subdirs {
		if err := os.MkdirAll(filepath.Join(path, sub), 0755); err != nil {
			return Project{}, fmt.Errorf("creating project: %w", err)
		}
	}

	meta := Metadata{Name: strings.TrimSpace(name), Created: m.now()}
	data, err := yaml.Marshal(meta)
	if err != nil {
		return Project{}, fmt.Errorf("serializing project metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, metadataFile), data, 0644); err != nil {
		return Project{}, fmt.Errorf("writing project metadata: %w", err)
	}
	return m.load(slug)
}
