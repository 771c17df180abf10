// File: models/draft.go
package models

// EditorMode distinguishes a fresh draft from one loaded for editing.
type EditorMode int

const (
	ModeCreate EditorMode = iota
	ModeEdit
)

// FeedDraft is the admin editor's form state.
type FeedDraft struct {
	Mode   EditorMode
	ID     string
	Fields FeedFields
}

// NewFeedDraft returns an empty create-mode draft of type Large.
func NewFeedDraft() FeedDraft {
	return FeedDraft{
		Mode:   ModeCreate,
		Fields: FeedFields{Type: FeedLarge, Tags: []string{}},
	}
}

// EditDraft loads an existing item into an edit-mode draft.
func EditDraft(item FeedItem) FeedDraft {
	fields := item.FeedFields
	fields.Tags = append([]string{}, item.Tags...)
	return FeedDraft{Mode: ModeEdit, ID: item.ID, Fields: fields}
}

// HasTag reports whether tag (key or label) is selected.
func (d FeedDraft) HasTag(tag string) bool {
	label, ok := NormalizeTag(tag)
	if !ok {
		return false
	}
	for _, t := range d.Fields.Tags {
		if t == label {
			return true
		}
	}
	return false
}

// ToggleTag adds tag if absent and removes it if present.
func (d FeedDraft) ToggleTag(tag string) (FeedDraft, error) {
	label, ok := NormalizeTag(tag)
	if !ok {
		return d, NewValidationError("tags", ErrInvalidTag)
	}

	next := make([]string, 0, len(d.Fields.Tags)+1)
	removed := false
	for _, t := range d.Fields.Tags {
		if t == label {
			removed = true
			continue
		}
		next = append(next, t)
	}
	if !removed {
		next = append(next, label)
	}
	d.Fields.Tags = next
	return d, nil
}

// SetImage stores the public URL of an uploaded image.
func (d FeedDraft) SetImage(url string) FeedDraft {
	d.Fields.ImageURL = url
	return d
}

// Submission validates the draft. Create mode requires an image; edit mode
// keeps whatever URL is already set.
func (d FeedDraft) Submission() (FeedFields, error) {
	if d.Mode == ModeCreate && d.Fields.ImageURL == "" {
		return FeedFields{}, NewValidationError("", ErrImageRequired)
	}
	if d.Mode == ModeEdit && d.ID == "" {
		return FeedFields{}, NewValidationError("id", ErrInvalidFeedID)
	}
	return d.Fields.Normalize()
}
