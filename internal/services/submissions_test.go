package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/blob"
	"github.com/campushub/backend/internal/media"
	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/store"
	"github.com/campushub/backend/internal/store/storetest"
)

// --- Fakes ---

type fakeBlob struct {
	url      string
	publicID string
	err      error

	uploads []struct {
		filename  string
		namespace string
		size      int
	}
}

func (f *fakeBlob) Upload(_ context.Context, content []byte, filename, namespace string) (blob.UploadResult, error) {
	f.uploads = append(f.uploads, struct {
		filename  string
		namespace string
		size      int
	}{filename, namespace, len(content)})
	if f.err != nil {
		return blob.UploadResult{}, f.err
	}
	return blob.UploadResult{URL: f.url, PublicID: f.publicID}, nil
}

type fakeExtractor struct {
	audio *media.Audio
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (*media.Audio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func newSubmissionFixture(t *testing.T) (*SubmissionService, *storetest.Fake, *fakeBlob) {
	t.Helper()
	st := storetest.New()
	b := &fakeBlob{url: "https://media.example/x.png", publicID: "assets/x"}
	svc := NewSubmissionService(st, b, nil, "campushub/assets", "ops@campushub.local", time.UTC)
	return svc, st, b
}

func TestRegisterComplaint_Success(t *testing.T) {
	svc, st, b := newSubmissionFixture(t)

	out, err := svc.RegisterComplaint(context.Background(), ComplaintRequest{
		FullName:    "Asha",
		Email:       "asha@x.com",
		Title:       "wifi issue",
		Description: "no signal",
		Content:     []byte("0123456789"),
		Filename:    "photo.png",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ComplaintPending, out.Status)
	assert.False(t, out.ID.IsZero())
	assert.Equal(t, b.url, out.ImageURL)
	assert.Equal(t, b.publicID, out.PublicID)

	// Upload namespace is scoped by submitter email.
	require.Len(t, b.uploads, 1)
	assert.Equal(t, "campushub/assets/asha@x.com", b.uploads[0].namespace)

	// Exactly two notifications: ack to submitter, alert to operator.
	require.Len(t, st.Enqueued, 2)
	recipients := []string{st.Enqueued[0].Recipient, st.Enqueued[1].Recipient}
	assert.Contains(t, recipients, "asha@x.com")
	assert.Contains(t, recipients, "ops@campushub.local")
	for _, n := range st.Enqueued {
		assert.Contains(t, n.HTMLBody, out.ID.Hex())
	}
}

func TestRegisterComplaint_ValidationRejectsBeforeAnyCall(t *testing.T) {
	svc, st, b := newSubmissionFixture(t)

	_, err := svc.RegisterComplaint(context.Background(), ComplaintRequest{
		FullName: "Asha", Email: "asha@x.com", Title: "wifi issue",
		// no description, no file
	})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, b.uploads)
	assert.Zero(t, st.ComplaintCreateCalls)
}

func TestRegisterComplaint_UploadFailureSkipsInsert(t *testing.T) {
	svc, st, b := newSubmissionFixture(t)
	b.err = errors.New("quota exceeded")

	_, err := svc.RegisterComplaint(context.Background(), ComplaintRequest{
		FullName: "Asha", Email: "asha@x.com", Title: "wifi issue",
		Description: "no signal", Content: []byte("0123456789"),
	})
	require.Error(t, err)
	assert.Zero(t, st.ComplaintCreateCalls, "insert must never be attempted after a failed upload")
	assert.Empty(t, st.Enqueued)
}

func TestRegisterComplaint_InsertFailureLeavesOrphan(t *testing.T) {
	svc, st, b := newSubmissionFixture(t)
	st.FailComplaintCreate = fmt.Errorf("%w: ping failed", model.ErrUnavailable)

	_, err := svc.RegisterComplaint(context.Background(), ComplaintRequest{
		FullName: "Asha", Email: "asha@x.com", Title: "wifi issue",
		Description: "no signal", Content: []byte("0123456789"),
	})
	require.ErrorIs(t, err, model.ErrUnavailable)

	// The artifact was uploaded and stays uploaded: no compensating call.
	assert.Len(t, b.uploads, 1)
	assert.Empty(t, st.ComplaintsByID)
	assert.Empty(t, st.Enqueued)
}

func TestRegisterComplaint_EnqueueFailureNotSurfaced(t *testing.T) {
	svc, st, _ := newSubmissionFixture(t)
	st.FailEnqueue = errors.New("outbox down")

	out, err := svc.RegisterComplaint(context.Background(), ComplaintRequest{
		FullName: "Asha", Email: "asha@x.com", Title: "wifi issue",
		Description: "no signal", Content: []byte("0123456789"),
	})
	require.NoError(t, err, "notification enqueue is best-effort")
	assert.False(t, out.ID.IsZero())
}

// ctxAwareStore rejects outbox writes under a dead context, the way a
// real driver would. It pins the detached-enqueue behavior: a caller
// hanging up after the record is written must not lose notifications.
type ctxAwareStore struct {
	*storetest.Fake
}

func (s *ctxAwareStore) Outbox() store.Outbox {
	return ctxAwareOutbox{s.Fake.Outbox()}
}

type ctxAwareOutbox struct {
	store.Outbox
}

func (o ctxAwareOutbox) Enqueue(ctx context.Context, n *model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.Outbox.Enqueue(ctx, n)
}

func TestRegisterComplaint_CanceledRequestStillEnqueues(t *testing.T) {
	fake := storetest.New()
	st := &ctxAwareStore{Fake: fake}
	b := &fakeBlob{url: "https://media.example/x.png", publicID: "assets/x"}
	svc := NewSubmissionService(st, b, nil, "campushub/assets", "ops@campushub.local", time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := svc.RegisterComplaint(ctx, ComplaintRequest{
		FullName: "Asha", Email: "asha@x.com", Title: "wifi issue",
		Description: "no signal", Content: []byte("0123456789"),
	})
	require.NoError(t, err)
	assert.False(t, out.ID.IsZero())

	require.Len(t, fake.Enqueued, 2)
	recipients := []string{fake.Enqueued[0].Recipient, fake.Enqueued[1].Recipient}
	assert.Contains(t, recipients, "asha@x.com")
	assert.Contains(t, recipients, "ops@campushub.local")
}

func TestUploadTrack(t *testing.T) {
	svc, st, b := newSubmissionFixture(t)

	out, err := svc.UploadTrack(context.Background(), []byte("audio"), "song.mp3", TrackMetadata{
		Title:         "Midnight",
		Artist:        "Nova",
		Genre:         "ambient",
		Duration:      241.5,
		UploaderEmail: "u@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SourceUpload, out.Source)
	assert.Equal(t, b.url, out.MediaURL)
	assert.Equal(t, 1, st.TrackCreateCalls)
	require.Len(t, b.uploads, 1)
	assert.Equal(t, "campushub/assets/music/u@x.com", b.uploads[0].namespace)
}

func TestUploadTrack_MissingMetadata(t *testing.T) {
	svc, _, b := newSubmissionFixture(t)

	_, err := svc.UploadTrack(context.Background(), []byte("audio"), "song.mp3", TrackMetadata{Artist: "Nova"})
	require.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, b.uploads)
}

func TestImportFromYouTube(t *testing.T) {
	st := storetest.New()
	b := &fakeBlob{url: "https://media.example/a.mp3", publicID: "music/a"}
	ex := &fakeExtractor{audio: &media.Audio{
		Content:  []byte("mp3 bytes"),
		Title:    "Live Set",
		Uploader: "Nova",
		Duration: 3600,
		Filename: "abc123.mp3",
	}}
	svc := NewSubmissionService(st, b, ex, "campushub/assets", "", time.UTC)

	out, err := svc.ImportFromYouTube(context.Background(), "https://youtube.com/watch?v=abc123")
	require.NoError(t, err)
	assert.Equal(t, model.SourceYouTube, out.Source)
	assert.Equal(t, "Live Set", out.Title)
	assert.Equal(t, "Nova", out.Artist)
	assert.Equal(t, b.url, out.MediaURL)
}

func TestImportFromYouTube_ExtractionFailureSkipsUploadAndInsert(t *testing.T) {
	st := storetest.New()
	b := &fakeBlob{}
	ex := &fakeExtractor{err: errors.New("video unavailable")}
	svc := NewSubmissionService(st, b, ex, "campushub/assets", "", time.UTC)

	_, err := svc.ImportFromYouTube(context.Background(), "https://youtube.com/watch?v=gone")
	require.Error(t, err)
	assert.Empty(t, b.uploads)
	assert.Zero(t, st.TrackCreateCalls)
}

func TestListTracksConvertsTimestamps(t *testing.T) {
	st := storetest.New()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc := NewSubmissionService(st, &fakeBlob{url: "u", publicID: "p"}, nil, "r", "", loc)

	_, err = svc.UploadTrack(context.Background(), []byte("a"), "a.mp3", TrackMetadata{Title: "T", Artist: "A"})
	require.NoError(t, err)

	ts, err := svc.ListTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, loc.String(), ts[0].CreatedAt.Location().String())
}
