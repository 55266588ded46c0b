package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"pxsurvey/internal/model"
	"pxsurvey/internal/service"
	"pxsurvey/internal/transport/rest/middleware"
)

// SessionHandler handles survey session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	authSvc    *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		authSvc:    authSvc,
	}
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	FormType string     `json:"formType"`
	Flow     model.Flow `json:"flow"`
}

// SessionView is a session plus its derived progress, as shells see it
type SessionView struct {
	Session  *model.SurveySession     `json:"session"`
	Progress *service.ProgressSnapshot `json:"progress"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.sessionSvc.Start(r.Context(), req.FormType, req.Flow)
	if errors.Is(err, service.ErrFormNotFound) {
		writeError(w, http.StatusNotFound, "form not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	token, err := h.authSvc.GenerateSessionToken(session.ID, session.FormType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	form, err := h.sessionSvc.Form(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":   token,
		"form":    form,
		"session": session,
	})
}

// Current handles GET /v1/sessions/current
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// Begin handles POST /v1/sessions/begin
func (h *SessionHandler) Begin(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Begin(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// SelectSection handles POST /v1/sessions/section/{sectionId}
func (h *SessionHandler) SelectSection(w http.ResponseWriter, r *http.Request) {
	sectionID := mux.Vars(r)["sectionId"]
	session, err := h.sessionSvc.SelectSection(r.Context(), middleware.GetSessionID(r.Context()), sectionID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// SetAnswerRequest is the request body for updating one answer field
type SetAnswerRequest struct {
	QuestionID string            `json:"questionId"`
	Field      model.AnswerField `json:"field"`
	Value      string            `json:"value"`
}

// SetAnswer handles PUT /v1/sessions/answers
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var req SetAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Field != model.AnswerFieldOption && req.Field != model.AnswerFieldComment {
		writeError(w, http.StatusBadRequest, "field must be option or comment")
		return
	}

	session, err := h.sessionSvc.SetAnswer(r.Context(), middleware.GetSessionID(r.Context()), req.QuestionID, req.Field, req.Value)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// CompleteSection handles POST /v1/sessions/complete
func (h *SessionHandler) CompleteSection(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.CompleteSection(r.Context(), middleware.GetSessionID(r.Context()))
	if errors.Is(err, service.ErrSectionIncomplete) {
		writeError(w, http.StatusConflict, "section is not complete")
		return
	}
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// Next handles POST /v1/sessions/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Next(r.Context(), middleware.GetSessionID(r.Context()))
	if errors.Is(err, service.ErrSectionIncomplete) {
		writeError(w, http.StatusConflict, "section is not complete")
		return
	}
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// Previous handles POST /v1/sessions/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Previous(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

// Restart handles POST /v1/sessions/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Restart(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	h.writeSessionView(w, r, session)
}

func (h *SessionHandler) writeSessionView(w http.ResponseWriter, r *http.Request, session *model.SurveySession) {
	form, err := h.sessionSvc.Form(r.Context(), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &SessionView{
		Session:  session,
		Progress: h.sessionSvc.Snapshot(form, session),
	})
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
