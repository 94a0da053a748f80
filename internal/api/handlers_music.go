package api

import (
	"encoding/json"
	"net/http"

	"github.com/campushub/backend/internal/api/respond"
	"github.com/campushub/backend/internal/services"
)

// MusicHandler covers track upload, YouTube import, and listing.
type MusicHandler struct {
	svc *services.SubmissionService
}

func NewMusicHandler(svc *services.SubmissionService) *MusicHandler { return &MusicHandler{svc: svc} }

// Upload POST /api/upload/music
// Multipart audio file plus a "metadata" form field holding a JSON
// document with title, artist, genre, duration, email.
func (h *MusicHandler) Upload(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := readMultipartFile(w, r, "file")
	if !ok {
		return
	}

	var meta services.TrackMetadata
	raw := r.FormValue("metadata")
	if raw == "" {
		respond.WriteBadRequest(w, "metadata is required")
		return
	}
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		respond.WriteBadRequest(w, "malformed metadata: "+err.Error())
		return
	}

	out, err := h.svc.UploadTrack(r.Context(), content, filename, meta)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ImportYouTube POST /api/upload/youtube/url
func (h *MusicHandler) ImportYouTube(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	out, err := h.svc.ImportFromYouTube(r.Context(), req.URL)
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// List GET /api/get/music_data
func (h *MusicHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.svc.ListTracks(r.Context())
	if err != nil {
		respond.WriteDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tracks": ts, "count": len(ts)})
}
