package model

import "time"

// SurveyResponse is the payload assembled at final completion and handed
// to the submission sink for durable storage.
type SurveyResponse struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	SessionID   string      `json:"sessionId" bson:"sessionId"`
	FormType    string      `json:"formType" bson:"formType"`
	Patient     PatientInfo `json:"patient" bson:"patient"`
	Answers     AnswerSet   `json:"answers" bson:"answers"`
	SubmittedAt time.Time   `json:"submittedAt" bson:"submittedAt"`
}

// SubmitResult is what the sink resolves with. The engine logs it and
// moves on; even Success=false counts as done.
type SubmitResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	SurveyID string `json:"surveyId,omitempty"`
}
