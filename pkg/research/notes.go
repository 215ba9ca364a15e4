package research

import (
	"fmt"
	"strings"

	"github.com/stefanpenner/labbook/pkg/store"
)

// NoteTypes are the single-letter codes a notebook page can be filed under.
var NoteTypes = []string{"H", "E", "R", "I", "Q"}

// PaperNote points at a page in a physical notebook.
type PaperNote struct {
	NotebookID string          `json:"notebook_id"`
	Page       int             `json:"page_number"`
	Date       store.Timestamp `json:"date"`
	Type       string          `json:"note_type"`
	Summary    string          `json:"brief_summary"`
}

// ParseNoteType validates a note type code.
func ParseNoteType(s string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range NoteTypes {
		if code == t {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be %s)", ErrInvalidNoteType, s, strings.Join(NoteTypes, ", "))
}

// PaperNotes returns every recorded reference in the order it was added.
func (j *Journal) PaperNotes() ([]PaperNote, error) {
	var notes []PaperNote
	if err := j.load(notesDir, notesFile, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// AddPaperNote records a reference to notebook page page.
func (j *Journal) AddPaperNote(notebookID string, page int, noteType, summary string) (PaperNote, error) {
	notebookID = strings.TrimSpace(notebookID)
	if notebookID == "" {
		return PaperNote{}, fmt.Errorf("notebook id: %w", ErrEmptyField)
	}
	if page < 1 {
		return PaperNote{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	code, err := ParseNoteType(noteType)
	if err != nil {
		return PaperNote{}, err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return PaperNote{}, fmt.Errorf("note summary: %w", ErrEmptyField)
	}

	notes, err := j.PaperNotes()
	if err != nil {
		return PaperNote{}, err
	}
	note := PaperNote{
		NotebookID: notebookID,
		Page:       page,
		Date:       store.At(j.now()),
		Type:       code,
		Summary:    summary,
	}
	if err := j.save(notesDir, notesFile, append(notes, note)); err != nil {
		return PaperNote{}, err
	}
	j.logger.Info("added paper note", "notebook", notebookID, "page", page)
	return note, nil
}
