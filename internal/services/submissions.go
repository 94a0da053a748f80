package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campushub/backend/internal/blob"
	"github.com/campushub/backend/internal/media"
	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/notify"
	"github.com/campushub/backend/internal/store"
)

// SubmissionService orchestrates the upload-register-notify workflow:
// upload the artifact, persist the record, enqueue notifications.
//
// Ordering is strict within one call: a failed upload aborts before any
// store write, and a failed insert never rolls back the uploaded
// artifact (accepted orphan). Notification enqueue is best-effort and
// never surfaces to the caller.
type SubmissionService struct {
	store      store.Store
	blobs      blob.Store
	extractor  media.Extractor
	rootFolder string
	operator   string
	display    *time.Location
}

func NewSubmissionService(s store.Store, b blob.Store, ex media.Extractor, rootFolder, operator string, display *time.Location) *SubmissionService {
	if display == nil {
		display = time.UTC
	}
	return &SubmissionService{
		store:      s,
		blobs:      b,
		extractor:  ex,
		rootFolder: rootFolder,
		operator:   operator,
		display:    display,
	}
}

// UploadArtifact pushes raw bytes to the media host under the service's
// root folder and returns the durable reference.
func (s *SubmissionService) UploadArtifact(ctx context.Context, content []byte, filename string) (blob.UploadResult, error) {
	if len(content) == 0 {
		return blob.UploadResult{}, fmt.Errorf("%w: file is required", model.ErrValidation)
	}
	if filename == "" {
		filename = uuid.NewString()
	}
	return s.blobs.Upload(ctx, content, filename, s.rootFolder)
}

// ComplaintRequest carries a student complaint submission.
type ComplaintRequest struct {
	FullName    string
	Email       string
	Title       string
	Description string
	Content     []byte
	Filename    string
}

func (r *ComplaintRequest) validate() error {
	for _, f := range []struct{ name, v string }{
		{"fullname", r.FullName},
		{"email", r.Email},
		{"title", r.Title},
		{"description", r.Description},
	} {
		if f.v == "" {
			return fmt.Errorf("%w: %s is required", model.ErrValidation, f.name)
		}
	}
	if len(r.Content) == 0 {
		return fmt.Errorf("%w: file is required", model.ErrValidation)
	}
	return nil
}

// RegisterComplaint uploads the attachment, persists the complaint with
// status pending, and enqueues two notifications: an acknowledgement to
// the submitter and an alert to the operator address.
func (s *SubmissionService) RegisterComplaint(ctx context.Context, req ComplaintRequest) (*model.Complaint, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	// Upload first. If it fails the record is never written; a record
	// must not exist without a valid media reference.
	ref, err := s.blobs.Upload(ctx, req.Content, req.Filename, path.Join(s.rootFolder, req.Email))
	if err != nil {
		return nil, err
	}

	c := &model.Complaint{
		FullName:    req.FullName,
		Email:       req.Email,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    ref.URL,
		PublicID:    ref.PublicID,
		Status:      model.ComplaintPending,
		CreatedAt:   time.Now().UTC(),
	}
	out, err := s.store.Complaints().Create(ctx, c)
	if err != nil {
		// The uploaded artifact is orphaned here. No compensating delete.
		return nil, err
	}

	s.enqueueComplaintNotifications(ctx, out)

	out.CreatedAt = out.CreatedAt.In(s.display)
	return out, nil
}

// enqueueComplaintNotifications is fire-and-forget: failures are logged
// and never propagated. Cancellation of the request must not drop the
// enqueue, so the parent's deadline is detached.
func (s *SubmissionService) enqueueComplaintNotifications(ctx context.Context, c *model.Complaint) {
	fields := notify.ComplaintFields{
		RecordID:    c.ID.Hex(),
		FullName:    c.FullName,
		Email:       c.Email,
		Title:       c.Title,
		Description: c.Description,
		MediaURL:    c.ImageURL,
	}
	ctx = context.WithoutCancel(ctx)

	if ack, err := notify.ComplaintAck(fields); err != nil {
		log.Warn().Err(err).Str("complaint", fields.RecordID).Msg("compose ack")
	} else if err := s.store.Outbox().Enqueue(ctx, ack); err != nil {
		log.Warn().Err(err).Str("complaint", fields.RecordID).Msg("enqueue ack")
	}

	if s.operator == "" {
		return
	}
	if alert, err := notify.ComplaintAlert(fields, s.operator); err != nil {
		log.Warn().Err(err).Str("complaint", fields.RecordID).Msg("compose alert")
	} else if err := s.store.Outbox().Enqueue(ctx, alert); err != nil {
		log.Warn().Err(err).Str("complaint", fields.RecordID).Msg("enqueue alert")
	}
}

// TrackMetadata is the caller-supplied portion of a music upload.
type TrackMetadata struct {
	Title         string  `json:"title"`
	Artist        string  `json:"artist"`
	Genre         string  `json:"genre"`
	Duration      float64 `json:"duration"`
	UploaderEmail string  `json:"email"`
}

// UploadTrack stores an uploaded audio file and persists its track
// record.
func (s *SubmissionService) UploadTrack(ctx context.Context, content []byte, filename string, meta TrackMetadata) (*model.Track, error) {
	if meta.Title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if meta.Artist == "" {
		return nil, fmt.Errorf("%w: artist is required", model.ErrValidation)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: audio file is required", model.ErrValidation)
	}
	if filename == "" {
		filename = uuid.NewString()
	}

	ns := path.Join(s.rootFolder, "music")
	if meta.UploaderEmail != "" {
		ns = path.Join(ns, meta.UploaderEmail)
	}
	ref, err := s.blobs.Upload(ctx, content, filename, ns)
	if err != nil {
		return nil, err
	}

	t := &model.Track{
		Title:         meta.Title,
		Artist:        meta.Artist,
		Genre:         meta.Genre,
		Duration:      meta.Duration,
		UploaderEmail: meta.UploaderEmail,
		Source:        model.SourceUpload,
		MediaURL:      ref.URL,
		MediaID:       ref.PublicID,
		CreatedAt:     time.Now().UTC(),
	}
	out, err := s.store.Tracks().Create(ctx, t)
	if err != nil {
		return nil, err
	}
	out.CreatedAt = out.CreatedAt.In(s.display)
	return out, nil
}

// ImportFromYouTube extracts and transcodes audio from a YouTube URL,
// uploads it, and persists the track with metadata reported by the
// extraction tool.
func (s *SubmissionService) ImportFromYouTube(ctx context.Context, url string) (*model.Track, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", model.ErrValidation)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("youtube import not configured")
	}

	audio, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	ref, err := s.blobs.Upload(ctx, audio.Content, audio.Filename, path.Join(s.rootFolder, "music", "youtube"))
	if err != nil {
		return nil, err
	}

	t := &model.Track{
		Title:     audio.Title,
		Artist:    audio.Uploader,
		Duration:  audio.Duration,
		Source:    model.SourceYouTube,
		MediaURL:  ref.URL,
		MediaID:   ref.PublicID,
		CreatedAt: time.Now().UTC(),
	}
	out, err := s.store.Tracks().Create(ctx, t)
	if err != nil {
		return nil, err
	}
	out.CreatedAt = out.CreatedAt.In(s.display)
	return out, nil
}

// ListTracks returns all track records, timestamps in the display zone.
func (s *SubmissionService) ListTracks(ctx context.Context) ([]*model.Track, error) {
	ts, err := s.store.Tracks().List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		t.CreatedAt = t.CreatedAt.In(s.display)
	}
	return ts, nil
}
