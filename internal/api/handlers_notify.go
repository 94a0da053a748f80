package api

import (
	"encoding/json"
	"net/http"

	"github.com/campushub/backend/internal/api/respond"
	"github.com/campushub/backend/internal/services"
)

// NotifyHandler is the generic send-email endpoint. The response is
// immediate; delivery happens in the notify worker.
type NotifyHandler struct {
	svc *services.NotifyService
}

func NewNotifyHandler(svc *services.NotifyService) *NotifyHandler { return &NotifyHandler{svc: svc} }

// Send POST /api/send/email
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	if err := h.svc.EnqueueEmail(r.Context(), in.Email, in.Subject, in.Body); err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
