package model

import "time"

// QuestionKind defines how a question is answered
type QuestionKind string

const (
	QuestionKindRating  QuestionKind = "rating"  // Pick one option label, resolved to a 1-5 scale
	QuestionKindComment QuestionKind = "comment" // Free text, bounded by MaxLength
)

// Question is a single survey question within a section
type Question struct {
	ID          string       `json:"id" bson:"id"`
	Kind        QuestionKind `json:"type" bson:"type"`
	Text        string       `json:"text" bson:"text"`
	Required    bool         `json:"required" bson:"required"`
	Options     []string     `json:"options,omitempty" bson:"options,omitempty"`         // rating only
	Placeholder string       `json:"placeholder,omitempty" bson:"placeholder,omitempty"` // comment only
	MaxLength   int          `json:"maxLength,omitempty" bson:"maxLength,omitempty"`     // comment only
}

// Section groups an ordered list of questions presented together
type Section struct {
	ID        string     `json:"id" bson:"id"`
	Title     string     `json:"title" bson:"title"`
	Icon      string     `json:"icon" bson:"icon"`   // presentation pass-through
	Color     string     `json:"color" bson:"color"` // presentation pass-through
	Questions []Question `json:"questions" bson:"questions"`
}

// PatientInfo is opaque patient metadata carried through to submission
type PatientInfo struct {
	Name      string `json:"name" bson:"name"`
	EntryType string `json:"entryType" bson:"entryType"`
	Unit      string `json:"unit" bson:"unit"`
	Doctor    string `json:"doctor" bson:"doctor"`
	Location  string `json:"location" bson:"location"`
}

// Form is a survey template: metadata plus ordered sections of questions.
// Immutable once loaded; the engine never mutates it.
type Form struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	FormType  string      `json:"formType" bson:"formType"`
	Title     string      `json:"title" bson:"title"`
	Subtitle  string      `json:"subtitle" bson:"subtitle"`
	Patient   PatientInfo `json:"patientInfo" bson:"patientInfo"`
	Sections  []Section   `json:"sections" bson:"sections"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// SectionByID returns the section with the given id, or nil
func (f *Form) SectionByID(id string) *Section {
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return &f.Sections[i]
		}
	}
	return nil
}

// SectionIndex returns the position of a section id, or -1
func (f *Form) SectionIndex(id string) int {
	for i := range f.Sections {
		if f.Sections[i].ID == id {
			return i
		}
	}
	return -1
}
