package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pxsurvey/internal/model"
)

// memorySessionCache is an in-memory stand-in for the Redis session cache
type memorySessionCache struct {
	mu       sync.Mutex
	sessions map[string]*model.SurveySession
}

func newMemorySessionCache() *memorySessionCache {
	return &memorySessionCache{sessions: make(map[string]*model.SurveySession)}
}

func (c *memorySessionCache) Set(ctx context.Context, session *model.SurveySession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.ID] = session
	return nil
}

func (c *memorySessionCache) Get(ctx context.Context, id string) (*model.SurveySession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id], nil
}

func (c *memorySessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

// stubFormRepo serves a single fixed form template
type stubFormRepo struct {
	form *model.Form
}

func (r *stubFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	return "", errors.New("not supported")
}

func (r *stubFormRepo) GetByType(ctx context.Context, formType string) (*model.Form, error) {
	if r.form != nil && r.form.FormType == formType {
		return r.form, nil
	}
	return nil, nil
}

func (r *stubFormRepo) List(ctx context.Context) ([]*model.Form, error) {
	return []*model.Form{r.form}, nil
}

func (r *stubFormRepo) Delete(ctx context.Context, id string) error {
	return nil
}

// countingSink records submissions and can be told to fail
type countingSink struct {
	mu       sync.Mutex
	calls    int
	failWith error
	lastResp *model.SurveyResponse
}

func (s *countingSink) Submit(ctx context.Context, response *model.SurveyResponse) (*model.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastResp = response
	if s.failWith != nil {
		return nil, s.failWith
	}
	return &model.SubmitResult{Success: true, Message: "Survey submitted successfully", SurveyID: "resp-1"}, nil
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func twoSectionForm() *model.Form {
	return &model.Form{
		ID:       "form-1",
		FormType: "inpatient",
		Title:    "Patient Experience Survey",
		Patient:  model.PatientInfo{Name: "BANDELA SIREESHA"},
		Sections: []model.Section{
			{
				ID:    "doctor_care",
				Title: "Doctor Care",
				Questions: []model.Question{
					{ID: "q4", Kind: model.QuestionKindRating, Required: true, Options: []string{"Yes", "No", "Some delay"}},
					{ID: "q5", Kind: model.QuestionKindRating, Required: true, Options: []string{"Not at all", "Somewhat", "Moderately", "Very attentive"}},
				},
			},
			{
				ID:    "facilities",
				Title: "Hospital Facilities",
				Questions: []model.Question{
					{ID: "q13", Kind: model.QuestionKindRating, Required: true, Options: []string{"Very Unclean", "Unclean", "Clean", "Very Clean", "Spotless"}},
				},
			},
		},
	}
}

func newTestSessionService(form *model.Form, sink SubmissionSink) (*SessionService, *memorySessionCache) {
	cache := newMemorySessionCache()
	formSvc := NewFormService(&stubFormRepo{form: form})
	svc := NewSessionService(formSvc, cache, NewCompletionService(), NewSubmitService(sink))
	return svc, cache
}

func startSession(t *testing.T, svc *SessionService, flow model.Flow) *model.SurveySession {
	t.Helper()
	session, err := svc.Start(context.Background(), "inpatient", flow)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, model.ScreenWelcome, session.Screen)
	return session
}

func TestSessionService_StartUnknownForm(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})

	_, err := svc.Start(context.Background(), "outpatient", model.FlowDashboard)
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestSessionService_StartInvalidFlowDefaultsToDashboard(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})

	session, err := svc.Start(context.Background(), "inpatient", model.Flow("carousel"))
	require.NoError(t, err)
	assert.Equal(t, model.FlowDashboard, session.Flow)
}

func TestSessionService_BeginDashboardGoesToOverview(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)

	session, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenOverview, session.Screen)
}

func TestSessionService_BeginAccordionOpensFirstSection(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowAccordion)

	session, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenSection, session.Screen)
	assert.Equal(t, "doctor_care", session.SectionID)
}

func TestSessionService_SelectUnknownSectionIsIgnored(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)
	_, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)

	session, err = svc.SelectSection(context.Background(), session.ID, "pharmacy")
	require.NoError(t, err)
	assert.Equal(t, model.ScreenOverview, session.Screen)
	assert.Empty(t, session.SectionID)
}

func TestSessionService_SelectSectionWizardShowsQuestion(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowWizard)
	_, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)

	session, err = svc.SelectSection(context.Background(), session.ID, "doctor_care")
	require.NoError(t, err)
	assert.Equal(t, model.ScreenQuestion, session.Screen)
	assert.Equal(t, "doctor_care", session.SectionID)
	assert.Zero(t, session.QuestionIndex)
}

func TestSessionService_SetAnswerUnknownQuestionIsIgnored(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)

	session, err := svc.SetAnswer(context.Background(), session.ID, "q99", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	assert.Empty(t, session.Answers)
}

func TestSessionService_SetAnswerClampsComment(t *testing.T) {
	form := twoSectionForm()
	form.Sections[0].Questions = append(form.Sections[0].Questions, model.Question{
		ID: "c1", Kind: model.QuestionKindComment, MaxLength: 10,
	})
	svc, _ := newTestSessionService(form, &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)

	session, err := svc.SetAnswer(context.Background(), session.ID, "c1", model.AnswerFieldComment, strings.Repeat("x", 40))
	require.NoError(t, err)
	assert.Len(t, session.Answers.Get("c1").Comment, 10)
}

func TestSessionService_CompleteSectionGated(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)
	_, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(context.Background(), session.ID, "doctor_care")
	require.NoError(t, err)

	// q5 unanswered
	_, err = svc.SetAnswer(context.Background(), session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.CompleteSection(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSectionIncomplete)

	// low rating without explanation still blocks
	_, err = svc.SetAnswer(context.Background(), session.ID, "q5", model.AnswerFieldOption, "Not at all")
	require.NoError(t, err)
	_, err = svc.CompleteSection(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSectionIncomplete)

	_, err = svc.SetAnswer(context.Background(), session.ID, "q5", model.AnswerFieldComment, "doctor never visited")
	require.NoError(t, err)
	session, err = svc.CompleteSection(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"doctor_care"}, session.CompletedSections)
	assert.Equal(t, model.ScreenOverview, session.Screen, "dashboard returns to the overview")
}

func TestSessionService_CompletionIsMonotonic(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowDashboard)
	_, err := svc.Begin(context.Background(), session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(context.Background(), session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(context.Background(), session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(context.Background(), session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	_, err = svc.CompleteSection(context.Background(), session.ID)
	require.NoError(t, err)

	// Downgrade an answer so the section would no longer evaluate complete
	session, err = svc.SetAnswer(context.Background(), session.ID, "q4", model.AnswerFieldOption, "No")
	require.NoError(t, err)
	assert.True(t, session.SectionCompleted("doctor_care"), "completed sections never un-complete")
}

func TestSessionService_LastSectionSubmitsExactlyOnce(t *testing.T) {
	sink := &countingSink{}
	svc, _ := newTestSessionService(twoSectionForm(), sink)
	session := startSession(t, svc, model.FlowDashboard)
	ctx := context.Background()

	_, err := svc.Begin(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	_, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)

	_, err = svc.SelectSection(ctx, session.ID, "facilities")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q13", model.AnswerFieldOption, "Spotless")
	require.NoError(t, err)
	session, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, model.ScreenThankYou, session.Screen)
	assert.NotNil(t, session.SubmittedAt)
	assert.False(t, session.Submitting)
	assert.Equal(t, 1, sink.count())

	// Further navigation after the terminal screen changes nothing
	session, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenThankYou, session.Screen)
	assert.Equal(t, 1, sink.count())
}

func TestSessionService_SubmissionFailureStillReachesThankYou(t *testing.T) {
	sink := &countingSink{failWith: errors.New("sink unavailable")}
	svc, _ := newTestSessionService(twoSectionForm(), sink)
	session := startSession(t, svc, model.FlowDashboard)
	ctx := context.Background()

	_, err := svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	_, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(ctx, session.ID, "facilities")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q13", model.AnswerFieldOption, "Clean")
	require.NoError(t, err)

	session, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err, "a failed submission is not surfaced to the patient")
	assert.Equal(t, model.ScreenThankYou, session.Screen)
	assert.NotNil(t, session.SubmittedAt)
	assert.Equal(t, 1, sink.count())
}

func TestSessionService_AccordionAutoAdvances(t *testing.T) {
	sink := &countingSink{}
	svc, _ := newTestSessionService(twoSectionForm(), sink)
	session := startSession(t, svc, model.FlowAccordion)
	ctx := context.Background()

	_, err := svc.Begin(ctx, session.ID)
	require.NoError(t, err)

	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	session, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)

	assert.True(t, session.SectionCompleted("doctor_care"))
	assert.Equal(t, "facilities", session.SectionID, "next incomplete section is expanded")
	assert.Equal(t, 0, sink.count())

	session, err = svc.SetAnswer(ctx, session.ID, "q13", model.AnswerFieldOption, "Spotless")
	require.NoError(t, err)
	assert.Equal(t, model.ScreenThankYou, session.Screen, "final answer ends the survey")
	assert.Equal(t, 1, sink.count())
}

func TestSessionService_TimelineNextGatedPreviousClamped(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowTimeline)
	ctx := context.Background()

	session, err := svc.Begin(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "doctor_care", session.SectionID)

	_, err = svc.Next(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSectionIncomplete, "next is gated on completion")

	// Previous at the first section stays put
	session, err = svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "doctor_care", session.SectionID)

	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	session, err = svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "facilities", session.SectionID)

	session, err = svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "doctor_care", session.SectionID)
}

func TestSessionService_WizardQuestionNavigation(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	session := startSession(t, svc, model.FlowWizard)
	ctx := context.Background()

	_, err := svc.Begin(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)

	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	session, err = svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, session.QuestionIndex)

	session, err = svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, session.QuestionIndex)

	// Previous at the first question is a no-op
	session, err = svc.Previous(ctx, session.ID)
	require.NoError(t, err)
	assert.Zero(t, session.QuestionIndex)

	_, err = svc.Next(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)

	// Next past the last question completes the section
	session, err = svc.Next(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, session.SectionCompleted("doctor_care"))
	assert.Equal(t, model.ScreenOverview, session.Screen)
}

func TestSessionService_RestartClearsEverything(t *testing.T) {
	sink := &countingSink{}
	svc, _ := newTestSessionService(twoSectionForm(), sink)
	session := startSession(t, svc, model.FlowDashboard)
	ctx := context.Background()

	_, err := svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	_, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)

	session, err = svc.Restart(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenWelcome, session.Screen)
	assert.Empty(t, session.Answers)
	assert.Empty(t, session.CompletedSections)
	assert.Nil(t, session.SubmittedAt)

	// A fresh pass through the whole form submits again
	_, err = svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	_, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)
	_, err = svc.SelectSection(ctx, session.ID, "facilities")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q13", model.AnswerFieldOption, "Spotless")
	require.NoError(t, err)
	session, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenThankYou, session.Screen)
	assert.Equal(t, 1, sink.count())
}

func TestSessionService_UnknownSessionID(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_SnapshotProgress(t *testing.T) {
	svc, _ := newTestSessionService(twoSectionForm(), &countingSink{})
	form := twoSectionForm()
	session := startSession(t, svc, model.FlowDashboard)
	ctx := context.Background()

	snap := svc.Snapshot(form, session)
	assert.Equal(t, 0, snap.Progress)
	require.Len(t, snap.Sections, 2)
	assert.Equal(t, 2, snap.Sections[0].Total)

	_, err := svc.SelectSection(ctx, session.ID, "doctor_care")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q4", model.AnswerFieldOption, "Yes")
	require.NoError(t, err)
	_, err = svc.SetAnswer(ctx, session.ID, "q5", model.AnswerFieldOption, "Very attentive")
	require.NoError(t, err)
	session, err = svc.CompleteSection(ctx, session.ID)
	require.NoError(t, err)

	snap = svc.Snapshot(form, session)
	assert.Equal(t, 50, snap.Progress)
	assert.True(t, snap.Sections[0].Completed)
	assert.False(t, snap.Sections[1].Completed)
}
