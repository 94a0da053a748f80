package api

import (
	"io"
	"net/http"

	"github.com/campushub/backend/internal/api/respond"
	"github.com/campushub/backend/internal/services"
)

// maxUploadBytes caps multipart memory buffering.
const maxUploadBytes = 32 << 20

// UploadHandler is the standalone artifact upload endpoint.
type UploadHandler struct {
	svc *services.SubmissionService
}

func NewUploadHandler(svc *services.SubmissionService) *UploadHandler { return &UploadHandler{svc: svc} }

// Upload POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := readMultipartFile(w, r, "file")
	if !ok {
		return
	}
	ref, err := h.svc.UploadArtifact(r.Context(), content, filename)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, ref)
}

// readMultipartFile pulls the named file part out of a multipart form.
// It writes the error response itself and reports success via ok.
func readMultipartFile(w http.ResponseWriter, r *http.Request, field string) (content []byte, filename string, ok bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.WriteBadRequest(w, "invalid multipart form")
		return nil, "", false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		respond.WriteBadRequest(w, field+" is required")
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	content, err = io.ReadAll(file)
	if err != nil {
		respond.WriteBadRequest(w, "unable to read "+field)
		return nil, "", false
	}
	return content, header.Filename, true
}
