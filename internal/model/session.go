package model

import "time"

// Screen is the active screen of a survey session
type Screen string

const (
	ScreenWelcome  Screen = "welcome"
	ScreenOverview Screen = "overview" // section dashboard
	ScreenSection  Screen = "section"  // full question list of one section
	ScreenQuestion Screen = "question" // single question (wizard)
	ScreenThankYou Screen = "thankyou"
)

// Flow selects which presentation style drives navigation. One engine
// serves all styles; the flow only changes which transitions apply.
type Flow string

const (
	FlowDashboard Flow = "dashboard" // free section selection from an overview
	FlowWizard    Flow = "wizard"    // one question at a time within a section
	FlowAccordion Flow = "accordion" // sections expand sequentially, auto-advance on completion
	FlowTimeline  Flow = "timeline"  // sequential sections, next gated on completion
)

// ValidFlow reports whether f names a known flow
func ValidFlow(f Flow) bool {
	switch f {
	case FlowDashboard, FlowWizard, FlowAccordion, FlowTimeline:
		return true
	}
	return false
}

// SurveySession is the complete state of one patient's pass through a
// form. It is owned by the caller, created at session start and reset
// only by an explicit restart; there is no ambient global state.
type SurveySession struct {
	ID                string    `json:"id"`
	FormType          string    `json:"formType"`
	Flow              Flow      `json:"flow"`
	Screen            Screen    `json:"screen"`
	SectionID         string    `json:"sectionId,omitempty"`
	QuestionIndex     int       `json:"questionIndex"`
	Answers           AnswerSet `json:"answers"`
	CompletedSections []string  `json:"completedSections"`
	Submitting        bool      `json:"submitting"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	StartedAt         time.Time `json:"startedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// SectionCompleted reports whether a section id has been ratcheted into
// the completed set. Completion is monotonic: once recorded, a section
// stays completed even if a later answer edit would fail evaluation.
func (s *SurveySession) SectionCompleted(sectionID string) bool {
	for _, id := range s.CompletedSections {
		if id == sectionID {
			return true
		}
	}
	return false
}

// MarkSectionCompleted appends a section id once; returns true if newly added
func (s *SurveySession) MarkSectionCompleted(sectionID string) bool {
	if s.SectionCompleted(sectionID) {
		return false
	}
	s.CompletedSections = append(s.CompletedSections, sectionID)
	return true
}

// Reset clears all progress and returns the session to the welcome screen
func (s *SurveySession) Reset() {
	s.Screen = ScreenWelcome
	s.SectionID = ""
	s.QuestionIndex = 0
	s.Answers = make(AnswerSet)
	s.CompletedSections = nil
	s.Submitting = false
	s.SubmittedAt = nil
	s.UpdatedAt = time.Now()
}
