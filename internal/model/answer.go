package model

// AnswerField names one of the two settable fields on an answer
type AnswerField string

const (
	AnswerFieldOption  AnswerField = "option"
	AnswerFieldComment AnswerField = "comment"
)

// Answer holds what a patient has entered for one question: the selected
// option label (rating questions) and/or free text (comment questions,
// or the mandatory explanation attached to a low rating).
type Answer struct {
	Option  string `json:"option,omitempty" bson:"option,omitempty"`
	Comment string `json:"comment,omitempty" bson:"comment,omitempty"`
}

// AnswerSet accumulates answers keyed by question id over a session.
// Fields are only ever overwritten, never cleared; a full restart
// replaces the whole set.
type AnswerSet map[string]*Answer

// Set merges one field into the answer record for a question, creating
// the record if absent. Last write wins per field; the other field is
// preserved. No validation happens here.
func (a AnswerSet) Set(questionID string, field AnswerField, value string) {
	ans, ok := a[questionID]
	if !ok {
		ans = &Answer{}
		a[questionID] = ans
	}
	switch field {
	case AnswerFieldOption:
		ans.Option = value
	case AnswerFieldComment:
		ans.Comment = value
	}
}

// Get returns the answer for a question, or a zero answer if none
func (a AnswerSet) Get(questionID string) Answer {
	if ans, ok := a[questionID]; ok {
		return *ans
	}
	return Answer{}
}
