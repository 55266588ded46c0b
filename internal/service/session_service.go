package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pxsurvey/internal/cache"
	"pxsurvey/internal/model"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSectionIncomplete = errors.New("section is not complete")
)

// maxCommentLength bounds free text when a question does not set its own
const maxCommentLength = 500

// SectionProgress is the per-section piece of a progress snapshot
type SectionProgress struct {
	SectionID string `json:"sectionId"`
	Answered  int    `json:"answered"`
	Total     int    `json:"total"`
	Complete  bool   `json:"complete"`
	Completed bool   `json:"completed"` // ratcheted into the completed set
}

// ProgressSnapshot summarizes session progress for UI shells
type ProgressSnapshot struct {
	Progress          int               `json:"progress"` // rounded percent
	CompletedSections []string          `json:"completedSections"`
	Sections          []SectionProgress `json:"sections"`
}

// SessionService runs the survey navigation state machine: which screen
// is active, which section and question are current, and how completion
// results drive transitions. All state lives in an explicit session
// object stored per session id; there are no package globals.
type SessionService struct {
	formSvc      *FormService
	sessionCache cache.SessionCache
	completion   *CompletionService
	submitSvc    *SubmitService
	broadcaster  Broadcaster
}

// NewSessionService creates a new session service
func NewSessionService(
	formSvc *FormService,
	sessionCache cache.SessionCache,
	completion *CompletionService,
	submitSvc *SubmitService,
) *SessionService {
	return &SessionService{
		formSvc:      formSvc,
		sessionCache: sessionCache,
		completion:   completion,
		submitSvc:    submitSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a fresh session on the welcome screen for a form type
func (s *SessionService) Start(ctx context.Context, formType string, flow model.Flow) (*model.SurveySession, error) {
	form, err := s.formSvc.GetByType(ctx, formType)
	if err != nil {
		return nil, err
	}
	if !model.ValidFlow(flow) {
		flow = model.FlowDashboard
	}

	now := time.Now()
	session := &model.SurveySession{
		ID:        uuid.New().String(),
		FormType:  form.FormType,
		Flow:      flow,
		Screen:    model.ScreenWelcome,
		Answers:   make(model.AnswerSet),
		StartedAt: now,
		UpdatedAt: now,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMonitors("session_started", map[string]string{
			"sessionId": session.ID,
			"formType":  session.FormType,
			"flow":      string(session.Flow),
		})
	}

	return session, nil
}

// Get loads a session by id
func (s *SessionService) Get(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, err := s.sessionCache.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Begin leaves the welcome screen. Dashboard and wizard flows go to the
// section overview; accordion and timeline open the first section
// directly.
func (s *SessionService) Begin(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Screen != model.ScreenWelcome {
		return session, nil
	}

	switch session.Flow {
	case model.FlowAccordion, model.FlowTimeline:
		if len(form.Sections) > 0 {
			session.SectionID = form.Sections[0].ID
			session.Screen = model.ScreenSection
		} else {
			session.Screen = model.ScreenOverview
		}
	default:
		session.Screen = model.ScreenOverview
	}

	return session, s.save(ctx, session)
}

// SelectSection makes a section current. Any section is reachable at
// any time, completed or not; an unknown section id is ignored.
func (s *SessionService) SelectSection(ctx context.Context, sessionID, sectionID string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Screen == model.ScreenThankYou {
		return session, nil
	}

	if form.SectionByID(sectionID) == nil {
		log.Printf("Ignoring unknown section %q for session %s", sectionID, session.ID)
		return session, nil
	}

	session.SectionID = sectionID
	session.QuestionIndex = 0
	if session.Flow == model.FlowWizard {
		session.Screen = model.ScreenQuestion
	} else {
		session.Screen = model.ScreenSection
	}

	return session, s.save(ctx, session)
}

// SetAnswer merges one answer field, then re-evaluates completion. The
// accordion flow reacts here: newly complete sections are ratcheted and
// the next incomplete one is expanded; when the last section completes
// the submission fires and the session ends on the thank-you screen.
func (s *SessionService) SetAnswer(ctx context.Context, sessionID, questionID string, field model.AnswerField, value string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Screen == model.ScreenThankYou {
		return session, nil
	}

	question := questionByID(form, questionID)
	if question == nil {
		log.Printf("Ignoring answer for unknown question %q in session %s", questionID, session.ID)
		return session, nil
	}

	if field == model.AnswerFieldComment {
		limit := question.MaxLength
		if limit <= 0 {
			limit = maxCommentLength
		}
		if len(value) > limit {
			value = value[:limit]
		}
	}

	session.Answers.Set(questionID, field, value)
	session.UpdatedAt = time.Now()

	if session.Flow == model.FlowAccordion {
		s.autoAdvance(ctx, form, session)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.broadcastProgress(form, session)
	return session, nil
}

// CompleteSection ratchets the current section into the completed set
// once the evaluator passes. The last section to complete triggers
// submission and the thank-you screen; otherwise navigation returns to
// the overview (dashboard/wizard) or moves on (accordion/timeline).
func (s *SessionService) CompleteSection(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Screen == model.ScreenThankYou {
		return session, nil
	}

	section := form.SectionByID(session.SectionID)
	if section == nil {
		log.Printf("Complete with no current section in session %s", session.ID)
		return session, nil
	}
	if !s.completion.IsSectionComplete(section, session.Answers) {
		return session, ErrSectionIncomplete
	}

	session.MarkSectionCompleted(section.ID)
	session.UpdatedAt = time.Now()

	if len(session.CompletedSections) == len(form.Sections) {
		s.finish(ctx, form, session)
		if err := s.save(ctx, session); err != nil {
			return nil, err
		}
		s.broadcastProgress(form, session)
		return session, nil
	}

	switch session.Flow {
	case model.FlowAccordion:
		if next := s.nextIncompleteSection(form, session); next != nil {
			session.SectionID = next.ID
		}
		session.Screen = model.ScreenSection
	case model.FlowTimeline:
		if idx := form.SectionIndex(section.ID); idx >= 0 && idx+1 < len(form.Sections) {
			session.SectionID = form.Sections[idx+1].ID
		}
		session.Screen = model.ScreenSection
	default:
		session.SectionID = ""
		session.Screen = model.ScreenOverview
	}
	session.QuestionIndex = 0

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.broadcastProgress(form, session)
	return session, nil
}

// Next advances within the current flow: the wizard steps to the next
// question (completing the section past the last one), the timeline
// completes the current step and moves on. Other flows ignore it.
func (s *SessionService) Next(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Flow {
	case model.FlowWizard:
		if session.Screen != model.ScreenQuestion {
			return session, nil
		}
		section := form.SectionByID(session.SectionID)
		if section == nil {
			return session, nil
		}
		if session.QuestionIndex < len(section.Questions)-1 {
			session.QuestionIndex++
			return session, s.save(ctx, session)
		}
		return s.CompleteSection(ctx, sessionID)
	case model.FlowTimeline:
		if session.Screen != model.ScreenSection {
			return session, nil
		}
		return s.CompleteSection(ctx, sessionID)
	}
	return session, nil
}

// Previous steps back: the wizard to the prior question (a no-op at the
// first), the timeline to the prior section. Other flows ignore it.
func (s *SessionService) Previous(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, form, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Flow {
	case model.FlowWizard:
		if session.Screen == model.ScreenQuestion && session.QuestionIndex > 0 {
			session.QuestionIndex--
			return session, s.save(ctx, session)
		}
	case model.FlowTimeline:
		if idx := form.SectionIndex(session.SectionID); idx > 0 {
			session.SectionID = form.Sections[idx-1].ID
			session.QuestionIndex = 0
			return session, s.save(ctx, session)
		}
	}
	return session, nil
}

// Restart wipes all answers and completed sections and returns to the
// welcome screen.
func (s *SessionService) Restart(ctx context.Context, sessionID string) (*model.SurveySession, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Reset()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToMonitors("session_restarted", map[string]string{
			"sessionId": session.ID,
		})
	}
	return session, nil
}

// Snapshot derives the current progress view for a session
func (s *SessionService) Snapshot(form *model.Form, session *model.SurveySession) *ProgressSnapshot {
	snapshot := &ProgressSnapshot{
		Progress:          s.completion.Progress(len(session.CompletedSections), len(form.Sections)),
		CompletedSections: session.CompletedSections,
	}
	for i := range form.Sections {
		section := &form.Sections[i]
		snapshot.Sections = append(snapshot.Sections, SectionProgress{
			SectionID: section.ID,
			Answered:  s.completion.SectionAnswered(section, session.Answers),
			Total:     len(section.Questions),
			Complete:  s.completion.IsSectionComplete(section, session.Answers),
			Completed: session.SectionCompleted(section.ID),
		})
	}
	return snapshot
}

// Form resolves a session's form template
func (s *SessionService) Form(ctx context.Context, session *model.SurveySession) (*model.Form, error) {
	return s.formSvc.GetByType(ctx, session.FormType)
}

// autoAdvance implements the accordion's reactive transition: evaluate
// every section after a mutation, ratchet newly complete ones, expand
// the next incomplete one, and end the survey when nothing is left.
func (s *SessionService) autoAdvance(ctx context.Context, form *model.Form, session *model.SurveySession) {
	newly := false
	for i := range form.Sections {
		section := &form.Sections[i]
		if session.SectionCompleted(section.ID) {
			continue
		}
		if s.completion.IsSectionComplete(section, session.Answers) {
			session.MarkSectionCompleted(section.ID)
			newly = true
			if s.broadcaster != nil {
				s.broadcaster.BroadcastToSession(session.ID, "section_completed", map[string]string{
					"sectionId": section.ID,
				})
			}
		}
	}
	if !newly {
		return
	}

	if len(session.CompletedSections) == len(form.Sections) {
		s.finish(ctx, form, session)
		return
	}

	if next := s.nextIncompleteSection(form, session); next != nil && next.ID != session.SectionID {
		session.SectionID = next.ID
		session.Screen = model.ScreenSection
		if s.broadcaster != nil {
			s.broadcaster.BroadcastToSession(session.ID, "section_expanded", map[string]string{
				"sectionId": next.ID,
			})
		}
	}
}

// finish fires the submission coordinator exactly once and moves the
// session to its terminal screen. The Submitting flag doubles as the
// double-fire guard; the shell observes it to show a blocking
// interstitial.
func (s *SessionService) finish(ctx context.Context, form *model.Form, session *model.SurveySession) {
	if session.Submitting || session.SubmittedAt != nil {
		return
	}
	session.Submitting = true
	s.submitSvc.Submit(ctx, form, session)
	now := time.Now()
	session.Submitting = false
	session.SubmittedAt = &now
	session.Screen = model.ScreenThankYou
	session.SectionID = ""
	session.QuestionIndex = 0
}

func (s *SessionService) nextIncompleteSection(form *model.Form, session *model.SurveySession) *model.Section {
	for i := range form.Sections {
		if !session.SectionCompleted(form.Sections[i].ID) {
			return &form.Sections[i]
		}
	}
	return nil
}

func (s *SessionService) broadcastProgress(form *model.Form, session *model.SurveySession) {
	if s.broadcaster == nil {
		return
	}
	snapshot := s.Snapshot(form, session)
	s.broadcaster.BroadcastToSession(session.ID, "progress_update", snapshot)
	s.broadcaster.BroadcastToMonitors("session_progress", map[string]interface{}{
		"sessionId": session.ID,
		"formType":  session.FormType,
		"screen":    session.Screen,
		"progress":  snapshot.Progress,
	})
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*model.SurveySession, *model.Form, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	form, err := s.formSvc.GetByType(ctx, session.FormType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load form for session: %w", err)
	}
	return session, form, nil
}

func (s *SessionService) save(ctx context.Context, session *model.SurveySession) error {
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func questionByID(form *model.Form, questionID string) *model.Question {
	for i := range form.Sections {
		for j := range form.Sections[i].Questions {
			if form.Sections[i].Questions[j].ID == questionID {
				return &form.Sections[i].Questions[j]
			}
		}
	}
	return nil
}
