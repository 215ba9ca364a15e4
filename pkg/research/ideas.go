package research

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
)

// IdeaStatus is where an idea sits in the pipeline.
type IdeaStatus string

const (
	IdeaSeed        IdeaStatus = "seed"
	IdeaGerminating IdeaStatus = "germinating"
	IdeaDeveloping  IdeaStatus = "developing"
	IdeaBlocked     IdeaStatus = "blocked"
	IdeaReady       IdeaStatus = "ready"
)

// IdeaStatuses lists every pipeline stage in order.
var IdeaStatuses = []IdeaStatus{IdeaSeed, IdeaGerminating, IdeaDeveloping, IdeaBlocked, IdeaReady}

// ParseIdeaStatus validates s against the pipeline stages.
func ParseIdeaStatus(s string) (IdeaStatus, error) {
	st := IdeaStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range IdeaStatuses {
		if st == v {
			return st, nil
		}
	}
	names := make([]string, len(IdeaStatuses))
	for i, v := range IdeaStatuses {
		names[i] = string(v)
	}
	return "", fmt.Errorf("%w: %q (use %s)", ErrInvalidIdeaStatus, s, strings.Join(names, ", "))
}

const (
	initialNextSteps = "Initial exploration needed"
	initialPriority  = 3
)

// Idea is one entry in ideas/idea_summaries.json.
type Idea struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Status          IdeaStatus      `json:"status"`
	Created         store.Timestamp `json:"created_date"`
	Updated         store.Timestamp `json:"last_updated"`
	Prerequisites   []string        `json:"prerequisites"`
	PaperNotes      []PaperNote     `json:"paper_notes"`
	RelatedIdeas    []string        `json:"related_ideas"`
	PotentialImpact string          `json:"potential_impact"`
	EffortEstimate  string          `json:"effort_estimate"`
	NextSteps       string          `json:"next_steps"`
	Priority        int             `json:"priority"`
}

// Ideas returns every recorded idea in the order it was captured.
func (j *Journal) Ideas() ([]Idea, error) {
	var ideas []Idea
	if err := j.load(ideasDir, ideasFile, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// Idea returns the idea with the given id.
func (j *Journal) Idea(id string) (Idea, error) {
	ideas, err := j.Ideas()
	if err != nil {
		return Idea{}, err
	}
	for _, idea := range ideas {
		if idea.ID == id {
			return idea, nil
		}
	}
	return Idea{}, fmt.Errorf("%w: %s", ErrNoSuchIdea, id)
}

// AddIdea captures a new idea as a seed. note, when set, is attached as
// the idea's source.
func (j *Journal) AddIdea(title, description string, note *PaperNote) (Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Idea{}, fmt.Errorf("idea title: %w", ErrEmptyField)
	}
	ideas, err := j.Ideas()
	if err != nil {
		return Idea{}, err
	}

	now := j.now()
	idea := Idea{
		ID:            nextIdeaID(ideas, now),
		Title:         title,
		Description:   strings.TrimSpace(description),
		Status:        IdeaSeed,
		Created:       store.At(now),
		Updated:       store.At(now),
		Prerequisites: []string{},
		PaperNotes:    []PaperNote{},
		RelatedIdeas:  []string{},
		NextSteps:     initialNextSteps,
		Priority:      initialPriority,
	}
	if note != nil {
		idea.PaperNotes = append(idea.PaperNotes, *note)
	}

	if err := j.save(ideasDir, ideasFile, append(ideas, idea)); err != nil {
		return Idea{}, err
	}
	j.logger.Info("added idea", "id", idea.ID, "title", idea.Title)
	return idea, nil
}

// nextIdeaID derives IDEA-YYYYMMDD-HHMM from now, suffixed when an idea
// from the same minute already holds it.
func nextIdeaID(ideas []Idea, now time.Time) string {
	base := "IDEA-" + now.Format("20060102-1504")
	taken := make(map[string]bool, len(ideas))
	for _, idea := range ideas {
		taken[idea.ID] = true
	}
	id := base
	for n := 2; taken[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// UpdateIdea moves an idea to status and, when nextSteps is non-empty,
// replaces its next steps. Either change refreshes last_updated.
func (j *Journal) UpdateIdea(id string, status IdeaStatus, nextSteps string) (Idea, error) {
	ideas, err := j.Ideas()
	if err != nil {
		return Idea{}, err
	}
	for i := range ideas {
		if ideas[i].ID != id {
			continue
		}
		if status != "" {
			ideas[i].Status = status
		}
		if s := strings.TrimSpace(nextSteps); s != "" {
			ideas[i].NextSteps = s
		}
		ideas[i].Updated = store.At(j.now())
		if err := j.save(ideasDir, ideasFile, ideas); err != nil {
			return Idea{}, err
		}
		return ideas[i], nil
	}
	return Idea{}, fmt.Errorf("%w: %s", ErrNoSuchIdea, id)
}

// StaleIdeas returns ideas untouched for more than days whole days.
// Blocked ideas are waiting on something else and never count as stale.
func (j *Journal) StaleIdeas(days int) ([]Idea, error) {
	ideas, err := j.Ideas()
	if err != nil {
		return nil, err
	}
	now := j.now()
	var stale []Idea
	for _, idea := range ideas {
		if idea.Status == IdeaBlocked {
			continue
		}
		if wholeDays(idea.Updated.Time, now) > days {
			stale = append(stale, idea)
		}
	}
	return stale, nil
}

// IdeasUpdatedSince returns ideas touched after since.
func (j *Journal) IdeasUpdatedSince(since time.Time) ([]Idea, error) {
	ideas, err := j.Ideas()
	if err != nil {
		return nil, err
	}
	var recent []Idea
	for _, idea := range ideas {
		if idea.Updated.After(since) {
			recent = append(recent, idea)
		}
	}
	return recent, nil
}
