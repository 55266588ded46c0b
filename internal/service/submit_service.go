package service

import (
	"context"
	"log"
	"time"

	"pxsurvey/internal/model"
)

// SubmissionSink is the external endpoint that durably records final
// answers. Any resolution, even Success=false, counts as done.
type SubmissionSink interface {
	Submit(ctx context.Context, response *model.SurveyResponse) (*model.SubmitResult, error)
}

// SubmitService assembles the final answer payload and hands it to the
// submission sink when the last section completes.
type SubmitService struct {
	sink        SubmissionSink
	broadcaster Broadcaster
}

// NewSubmitService creates a new submit service
func NewSubmitService(sink SubmissionSink) *SubmitService {
	return &SubmitService{
		sink: sink,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SubmitService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit sends the session's answers to the sink. Failures are logged
// and swallowed so the patient always reaches the thank-you screen;
// there is no retry. The returned result is Success=false at worst,
// never an error.
func (s *SubmitService) Submit(ctx context.Context, form *model.Form, session *model.SurveySession) *model.SubmitResult {
	response := &model.SurveyResponse{
		SessionID:   session.ID,
		FormType:    form.FormType,
		Patient:     form.Patient,
		Answers:     session.Answers,
		SubmittedAt: time.Now(),
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, "submission_started", map[string]string{
			"formType": form.FormType,
		})
	}

	result, err := s.sink.Submit(ctx, response)
	if err != nil {
		log.Printf("Submission failed for session %s: %v", session.ID, err)
		result = &model.SubmitResult{Success: false, Message: err.Error()}
	} else {
		log.Printf("Survey submitted: session=%s form=%s answers=%d success=%v",
			session.ID, form.FormType, len(session.Answers), result.Success)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(session.ID, "submission_finished", result)
		s.broadcaster.BroadcastToMonitors("survey_submitted", map[string]interface{}{
			"sessionId": session.ID,
			"formType":  form.FormType,
			"success":   result.Success,
			"surveyId":  result.SurveyID,
		})
	}

	return result
}
