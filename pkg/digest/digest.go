package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/labbook/pkg/research"
	"github.com/stefanpenner/labbook/pkg/store"
	"github.com/stefanpenner/labbook/pkg/tracker"
)

const frontmatterDelimiter = "---"

// Meta is the digest frontmatter.
type Meta struct {
	Project   string    `yaml:"project"`
	From      string    `yaml:"from"`
	To        string    `yaml:"to"`
	Days      int       `yaml:"days"`
	Completed int       `yaml:"completed"`
	Total     int       `yaml:"total"`
	Rate      float64   `yaml:"completion_rate"`
	Generated time.Time `yaml:"generated"`
}

// Digest is a frontmatter header plus a markdown body.
type Digest struct {
	Meta Meta
	Body string
}

// Build assembles a digest from per-day summaries in ascending date order.
func Build(project string, days []tracker.Summary, now time.Time) *Digest {
	d := &Digest{Meta: Meta{Project: project, Days: len(days), Generated: now}}
	if len(days) > 0 {
		d.Meta.From = days[0].Date
		d.Meta.To = days[len(days)-1].Date
	}

	var b strings.Builder
	if len(days) == 0 {
		b.WriteString("No daily logs in this period.\n")
	}
	for _, day := range days {
		d.Meta.Completed += day.Completed
		d.Meta.Total += day.Total

		fmt.Fprintf(&b, "## %s\n\n", day.Date)
		fmt.Fprintf(&b, "%d/%d goals completed (%s)\n\n", day.Completed, day.Total, day.RateString())
		for _, g := range day.Goals {
			mark := " "
			if g.Status == store.StateCompleted {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s", mark, g.Goal)
			if g.Status != store.StateCompleted && g.Status != store.StatePending {
				fmt.Fprintf(&b, " *(%s)*", g.Status)
			}
			if g.Overdue {
				fmt.Fprintf(&b, " **overdue since %s**", g.OriginalDate)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	d.Meta.Rate = tracker.CompletionRate(d.Meta.Completed, d.Meta.Total)

	title := fmt.Sprintf("# %s digest\n\n", project)
	if d.Meta.From != "" {
		title = fmt.Sprintf("# %s digest, %s to %s\n\n", project, d.Meta.From, d.Meta.To)
	}
	d.Body = title + strings.TrimRight(b.String(), "\n") + "\n"
	return d
}

// AddResearch appends the experiments and ideas active during the digest
// period to the body.
func (d *Digest) AddResearch(exps []research.Experiment, ideas []research.Idea) {
	if len(exps) == 0 && len(ideas) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(d.Body, "\n"))
	b.WriteString("\n\n")

	if len(exps) > 0 {
		b.WriteString("## Experiments\n\n")
		for _, e := range exps {
			status := "completed"
			if e.Running() {
				status = "ongoing"
			}
			conclusions := e.Conclusions
			if conclusions == "" {
				conclusions = "No conclusions yet"
			}
			fmt.Fprintf(&b, "- **%s** *(%s)*: %s\n", e.Hypothesis, status, conclusions)
		}
		b.WriteString("\n")
	}

	if len(ideas) > 0 {
		b.WriteString("## Ideas\n\n")
		for _, idea := range ideas {
			fmt.Fprintf(&b, "- P%d **%s** *(%s)*: %s\n", idea.Priority, idea.Title, idea.Status, idea.NextSteps)
		}
	}
	d.Body = strings.TrimRight(b.String(), "\n") + "\n"
}

// Markdown renders the digest with YAML frontmatter.
func (d *Digest) Markdown() (string, error) {
	yamlBytes, err := yaml.Marshal(d.Meta)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if d.Body != "" {
		b.WriteString("\n")
		b.WriteString(d.Body)
		if !strings.HasSuffix(d.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Parse splits a digest file into frontmatter and body. Content without
// frontmatter is treated as body only.
func Parse(content string) (*Digest, error) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return &Digest{Body: content}, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("unclosed frontmatter delimiter")
	}

	var d Digest
	if err := yaml.Unmarshal([]byte(rest[:idx]), &d.Meta); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	d.Body = strings.TrimLeft(rest[idx+len("\n"+frontmatterDelimiter):], "\n")
	return &d, nil
}

// Path returns where the digest generated at t is written inside a project.
func Path(projectDir string, t time.Time) string {
	return filepath.Join(projectDir, "digests", "digest_"+t.Format("20060102")+".md")
}

// Write saves the digest under projectDir/digests and returns the path.
func Write(projectDir string, d *Digest) (string, error) {
	md, err := d.Markdown()
	if err != nil {
		return "", err
	}
	path := Path(projectDir, d.Meta.Generated)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating digests directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("writing digest: %w", err)
	}
	return path, nil
}

// Load reads the digest written for the day containing t.
func Load(projectDir string, t time.Time) (*Digest, error) {
	path := Path(projectDir, t)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading digest: %w", err)
	}
	d, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Render formats the digest body for a terminal of the given width.
func Render(d *Digest, width int) (string, error) {
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(d.Body)
	if err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return out, nil
}
