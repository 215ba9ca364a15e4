package research

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stefanpenner/labbook/pkg/store"
)

const (
	autoConclusions = "Automatically concluded"
	autoNextSteps   = "Switched to new experiment"
)

// Experiment is one hypothesis under test. While running it is kept in
// experiments/active.json; once concluded it is appended to
// experiments/experiments.json.
type Experiment struct {
	ID           string                    `json:"id"`
	Started      store.Timestamp           `json:"timestamp"`
	Ended        *store.Timestamp          `json:"end_time"`
	Hypothesis   string                    `json:"hypothesis"`
	Methodology  string                    `json:"methodology"`
	Parameters   map[string]any            `json:"parameters"`
	Results      map[string]any            `json:"results"`
	Metrics      map[string]map[string]any `json:"metrics"`
	Conclusions  string                    `json:"conclusions"`
	NextSteps    string                    `json:"next_steps"`
	CodeVersion  string                    `json:"code_version"`
	PaperNotes   []PaperNote               `json:"paper_notes"`
	RelatedIdeas []string                  `json:"related_ideas"`
	Insights     []store.Insight           `json:"insights"`
}

// metadata is written to <id>/metadata.json when an experiment starts.
type metadata struct {
	Hypothesis   string          `json:"hypothesis"`
	Methodology  string          `json:"methodology"`
	Parameters   map[string]any  `json:"parameters"`
	RelatedIdeas []string        `json:"related_ideas"`
	Start        store.Timestamp `json:"start_time"`
}

// results is written to <id>/results.json when an experiment concludes.
type results struct {
	Hypothesis  string                    `json:"hypothesis"`
	Methodology string                    `json:"methodology"`
	Parameters  map[string]any            `json:"parameters"`
	Results     map[string]any            `json:"results"`
	Metrics     map[string]map[string]any `json:"metrics"`
	Insights    []store.Insight           `json:"insights"`
	Conclusions string                    `json:"conclusions"`
	NextSteps   string                    `json:"next_steps"`
	End         store.Timestamp           `json:"end_time"`
}

// ParseParam splits a name=value pair. Numeric values are stored as
// numbers, everything else as text.
func ParseParam(s string) (string, any, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("parameter %q: want name=value", s)
	}
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return name, f, nil
	}
	return name, value, nil
}

// Active returns the running experiment, or nil when there is none.
func (j *Journal) Active() (*Experiment, error) {
	var exp Experiment
	found, err := store.ReadJSON(j.path(experimentsDir, activeFile), &exp)
	if err != nil || !found {
		return nil, err
	}
	return &exp, nil
}

// Experiments returns every concluded experiment in the order it ended.
func (j *Journal) Experiments() ([]Experiment, error) {
	var exps []Experiment
	if err := j.load(experimentsDir, experimentsFile, &exps); err != nil {
		return nil, err
	}
	return exps, nil
}

// StartExperiment begins a new experiment. A running experiment is
// concluded automatically first and returned as previous.
func (j *Journal) StartExperiment(hypothesis, methodology string, params map[string]any, relatedIdea string) (started, previous *Experiment, err error) {
	hypothesis = strings.TrimSpace(hypothesis)
	if hypothesis == "" {
		return nil, nil, fmt.Errorf("hypothesis: %w", ErrEmptyField)
	}
	related := []string{}
	if relatedIdea = strings.TrimSpace(relatedIdea); relatedIdea != "" {
		if _, err := j.Idea(relatedIdea); err != nil {
			return nil, nil, err
		}
		related = append(related, relatedIdea)
	}

	active, err := j.Active()
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		j.logger.Warn("concluding previous experiment automatically", "id", active.ID)
		if previous, err = j.ConcludeExperiment(autoConclusions, autoNextSteps); err != nil {
			return nil, nil, err
		}
	}

	if params == nil {
		params = map[string]any{}
	}
	now := j.now()
	exp := &Experiment{
		ID:           j.nextExperimentID(now),
		Started:      store.At(now),
		Hypothesis:   hypothesis,
		Methodology:  strings.TrimSpace(methodology),
		Parameters:   params,
		Results:      map[string]any{},
		Metrics:      map[string]map[string]any{},
		CodeVersion:  j.version(),
		PaperNotes:   []PaperNote{},
		RelatedIdeas: related,
		Insights:     []store.Insight{},
	}

	dir := filepath.Join(experimentsDir, exp.ID)
	if err := j.save(dir, "metadata.json", metadata{
		Hypothesis:   exp.Hypothesis,
		Methodology:  exp.Methodology,
		Parameters:   exp.Parameters,
		RelatedIdeas: exp.RelatedIdeas,
		Start:        exp.Started,
	}); err != nil {
		return nil, nil, err
	}
	if err := j.save(experimentsDir, activeFile, exp); err != nil {
		return nil, nil, err
	}
	j.logger.Info("started experiment", "id", exp.ID)
	return exp, previous, nil
}

// nextExperimentID names the experiment directory after its start second,
// suffixed when that directory is already taken.
func (j *Journal) nextExperimentID(now time.Time) string {
	base := "experiment_" + now.Format("20060102_150405")
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(j.root, experimentsDir, id)); err != nil {
			return id
		}
		id = base + "_" + strconv.Itoa(n)
	}
}

func (j *Journal) version() string {
	v, err := j.codeVersion(j.root)
	if err != nil || v == "" {
		j.logger.Debug("code version unavailable", "err", err)
		return unknownVersion
	}
	return v
}

// ConcludeExperiment closes the running experiment with its findings.
func (j *Journal) ConcludeExperiment(conclusions, nextSteps string) (*Experiment, error) {
	exp, err := j.Active()
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrNoActiveExperiment
	}

	end := store.At(j.now())
	exp.Conclusions = strings.TrimSpace(conclusions)
	exp.NextSteps = strings.TrimSpace(nextSteps)
	exp.Ended = &end

	if err := j.save(filepath.Join(experimentsDir, exp.ID), "results.json", results{
		Hypothesis:  exp.Hypothesis,
		Methodology: exp.Methodology,
		Parameters:  exp.Parameters,
		Results:     exp.Results,
		Metrics:     exp.Metrics,
		Insights:    exp.Insights,
		Conclusions: exp.Conclusions,
		NextSteps:   exp.NextSteps,
		End:         end,
	}); err != nil {
		return nil, err
	}

	exps, err := j.Experiments()
	if err != nil {
		return nil, err
	}
	if err := j.save(experimentsDir, experimentsFile, append(exps, *exp)); err != nil {
		return nil, err
	}
	if err := os.Remove(j.path(experimentsDir, activeFile)); err != nil {
		return nil, fmt.Errorf("clearing active experiment: %w", err)
	}
	j.logger.Info("concluded experiment", "id", exp.ID)
	return exp, nil
}

// RecordInsight attaches an insight to the running experiment. It reports
// false when no experiment is running.
func (j *Journal) RecordInsight(in store.Insight) (bool, error) {
	exp, err := j.Active()
	if err != nil || exp == nil {
		return false, err
	}
	exp.Insights = append(exp.Insights, in)
	if err := j.save(experimentsDir, activeFile, exp); err != nil {
		return false, err
	}
	return true, nil
}

// ExperimentsSince returns concluded experiments started after since,
// followed by the running one if it also started after since.
func (j *Journal) ExperimentsSince(since time.Time) ([]Experiment, error) {
	exps, err := j.Experiments()
	if err != nil {
		return nil, err
	}
	active, err := j.Active()
	if err != nil {
		return nil, err
	}
	if active != nil {
		exps = append(exps, *active)
	}
	var recent []Experiment
	for _, e := range exps {
		if e.Started.After(since) {
			recent = append(recent, e)
		}
	}
	return recent, nil
}

// Running reports whether the experiment has not been concluded.
func (e *Experiment) Running() bool {
	return e.Ended == nil
}
