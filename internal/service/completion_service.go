package service

import (
	"math"
	"strings"

	"pxsurvey/internal/model"
)

// CompletionService decides when questions and sections count as
// answered. It is stateless; every method is safe to call repeatedly
// and never mutates its inputs.
type CompletionService struct{}

// NewCompletionService creates a new completion service
func NewCompletionService() *CompletionService {
	return &CompletionService{}
}

// IsQuestionAnswered reports whether a question is satisfied by the
// given answer.
//
// Comment questions are answered when optional, or when the trimmed
// comment is non-empty. Rating questions need a selected option; if the
// option resolves below 3, a non-empty comment explaining the rating is
// required regardless of the question's own Required flag. Ratings 3-5
// are answered on selection alone.
func (s *CompletionService) IsQuestionAnswered(q *model.Question, ans model.Answer) bool {
	switch q.Kind {
	case model.QuestionKindRating:
		if ans.Option == "" {
			return false
		}
		if rating := model.RatingForOption(ans.Option); rating < 3 {
			return strings.TrimSpace(ans.Comment) != ""
		}
		return true
	default:
		if !q.Required {
			return true
		}
		return strings.TrimSpace(ans.Comment) != ""
	}
}

// IsSectionComplete reports whether every question in the section is
// answered. Strict conjunction, no partial credit.
func (s *CompletionService) IsSectionComplete(section *model.Section, answers model.AnswerSet) bool {
	for i := range section.Questions {
		if !s.IsQuestionAnswered(&section.Questions[i], answers.Get(section.Questions[i].ID)) {
			return false
		}
	}
	return true
}

// SectionAnswered counts the answered questions in a section
func (s *CompletionService) SectionAnswered(section *model.Section, answers model.AnswerSet) int {
	n := 0
	for i := range section.Questions {
		if s.IsQuestionAnswered(&section.Questions[i], answers.Get(section.Questions[i].ID)) {
			n++
		}
	}
	return n
}

// Progress returns the completed-section percentage rounded for display
func (s *CompletionService) Progress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
