package api

import (
	"net/http"

	"github.com/campushub/backend/internal/api/respond"
	"github.com/campushub/backend/internal/api/validate"
	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/services"
)

// ComplaintHandler registers student complaints.
type ComplaintHandler struct {
	svc *services.SubmissionService
}

func NewComplaintHandler(svc *services.SubmissionService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

// Register POST /api/register/complaint/student
func (h *ComplaintHandler) Register(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := readMultipartFile(w, r, "file")
	if !ok {
		return
	}

	req := services.ComplaintRequest{
		FullName:    r.FormValue("fullname"),
		Email:       r.FormValue("email"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     content,
		Filename:    filename,
	}
	if err := validate.Complaint(req.FullName, req.Email, req.Title, req.Description); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.RegisterComplaint(r.Context(), req)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	// Response mirrors the record's public fields plus the assigned id.
	respond.WriteJSON(w, http.StatusCreated, struct {
		Message string `json:"message"`
		*model.Complaint
	}{"Complaint registered successfully.", out})
}
