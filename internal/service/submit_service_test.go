package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pxsurvey/internal/model"
)

// MockSubmissionSink is a mock type for the SubmissionSink interface
type MockSubmissionSink struct {
	mock.Mock
}

func (m *MockSubmissionSink) Submit(ctx context.Context, response *model.SurveyResponse) (*model.SubmitResult, error) {
	args := m.Called(ctx, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmitResult), args.Error(1)
}

func TestSubmitService_Success(t *testing.T) {
	sink := new(MockSubmissionSink)
	svc := NewSubmitService(sink)

	form := &model.Form{
		FormType: "inpatient",
		Patient:  model.PatientInfo{Name: "BANDELA SIREESHA"},
	}
	session := &model.SurveySession{
		ID:      "sess-1",
		Answers: model.AnswerSet{"q4": &model.Answer{Option: "Yes"}},
	}

	sink.On("Submit", mock.Anything, mock.MatchedBy(func(r *model.SurveyResponse) bool {
		return r.SessionID == "sess-1" &&
			r.FormType == "inpatient" &&
			r.Patient.Name == "BANDELA SIREESHA" &&
			len(r.Answers) == 1
	})).Return(&model.SubmitResult{Success: true, SurveyID: "resp-1"}, nil)

	result := svc.Submit(context.Background(), form, session)

	assert.True(t, result.Success)
	assert.Equal(t, "resp-1", result.SurveyID)
	sink.AssertExpectations(t)
}

func TestSubmitService_FailureIsSwallowed(t *testing.T) {
	sink := new(MockSubmissionSink)
	svc := NewSubmitService(sink)

	sink.On("Submit", mock.Anything, mock.Anything).Return(nil, errors.New("mongo down"))

	result := svc.Submit(context.Background(), &model.Form{FormType: "inpatient"}, &model.SurveySession{ID: "sess-2"})

	assert.NotNil(t, result, "a result always comes back, never a panic or nil")
	assert.False(t, result.Success)
	sink.AssertExpectations(t)
}
