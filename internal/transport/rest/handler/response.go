package handler

import (
	"net/http"

	"pxsurvey/internal/repository"
)

// ResponseHandler handles submitted-response review endpoints
type ResponseHandler struct {
	responseRepo repository.ResponseRepo
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseRepo repository.ResponseRepo) *ResponseHandler {
	return &ResponseHandler{responseRepo: responseRepo}
}

// List handles GET /v1/responses?formType=
func (h *ResponseHandler) List(w http.ResponseWriter, r *http.Request) {
	formType := r.URL.Query().Get("formType")

	responses, err := h.responseRepo.ListByFormType(r.Context(), formType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"responses": responses})
}
