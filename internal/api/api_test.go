package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/backend/internal/blob"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/internal/store/storetest"
)

type fakeBlob struct {
	url      string
	publicID string
	err      error
}

func (f *fakeBlob) Upload(_ context.Context, content []byte, filename, namespace string) (blob.UploadResult, error) {
	if f.err != nil {
		return blob.UploadResult{}, f.err
	}
	return blob.UploadResult{URL: f.url, PublicID: f.publicID}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *storetest.Fake) {
	t.Helper()
	st := storetest.New()
	blobs := &fakeBlob{url: "https://media.example/fixed.png", publicID: "assets/fixed"}

	subs := services.NewSubmissionService(st, blobs, nil, "campushub/assets", "ops@campushub.local", time.UTC)
	users := services.NewUserService(st)
	notifySvc := services.NewNotifyService(st)

	srv := httptest.NewServer(NewRouter(Deps{
		Submissions: subs,
		Users:       users,
		Notify:      notifySvc,
		Health:      st,
	}))
	t.Cleanup(srv.Close)
	return srv, st
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(fileField, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Server is active", body["message"])
}

func TestRegisterComplaintScenario(t *testing.T) {
	srv, st := newTestServer(t)

	body, ctype := multipartBody(t, map[string]string{
		"fullname":    "Asha",
		"email":       "asha@x.com",
		"title":       "wifi issue",
		"description": "no signal",
	}, "file", "photo.png", []byte("0123456789"))

	resp, err := http.Post(srv.URL+"/api/register/complaint/student", ctype, body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "pending", out["status"])
	assert.NotEmpty(t, out["_id"])
	assert.Equal(t, "https://media.example/fixed.png", out["url"])

	// Exactly two notifications: submitter ack and operator alert.
	require.Len(t, st.Enqueued, 2)
	recipients := []string{st.Enqueued[0].Recipient, st.Enqueued[1].Recipient}
	assert.Contains(t, recipients, "asha@x.com")
	assert.Contains(t, recipients, "ops@campushub.local")
}

func TestRegisterComplaintMissingField(t *testing.T) {
	srv, st := newTestServer(t)

	body, ctype := multipartBody(t, map[string]string{
		"fullname": "Asha",
		"email":    "asha@x.com",
		"title":    "wifi issue",
	}, "file", "photo.png", []byte("0123456789"))

	resp, err := http.Post(srv.URL+"/api/register/complaint/student", ctype, body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, st.ComplaintsByID)
}

func TestUpload(t *testing.T) {
	srv, _ := newTestServer(t)

	body, ctype := multipartBody(t, nil, "file", "pic.jpg", []byte("img"))
	resp, err := http.Post(srv.URL+"/api/upload", ctype, body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "https://media.example/fixed.png", out["url"])
	assert.Equal(t, "assets/fixed", out["public_id"])
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestUserLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// create
	resp := postJSON(t, srv.URL+"/api/create/user", map[string]string{
		"username": "asha", "email": "asha@x.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	_ = resp.Body.Close()
	assert.NotContains(t, created, "password_hash")
	assert.NotContains(t, created, "passwordHash")

	// duplicate
	resp = postJSON(t, srv.URL+"/api/create/user", map[string]string{
		"username": "other", "email": "asha@x.com", "password": "whatever1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// login ok
	resp = postJSON(t, srv.URL+"/api/login/user", map[string]string{
		"email": "asha@x.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login struct {
		Status  bool
		Message string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	_ = resp.Body.Close()
	assert.True(t, login.Status)

	// login wrong password vs unknown email: both fail, distinguishable
	resp = postJSON(t, srv.URL+"/api/login/user", map[string]string{
		"email": "asha@x.com", "password": "wrong-pass",
	})
	var wrong struct{ Message string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&wrong))
	_ = resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login/user", map[string]string{
		"email": "ghost@x.com", "password": "wrong-pass",
	})
	var unknown struct{ Message string }
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unknown))
	_ = resp.Body.Close()
	assert.NotEqual(t, wrong.Message, unknown.Message)

	// list users never exposes raw passwords or hashes
	resp, err := http.Get(srv.URL + "/api/show/user")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cret-pass")
	assert.NotContains(t, string(raw), "argon2id")
}

func TestFavouriteToggleRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/create/user", map[string]string{
		"username": "u", "email": "u@x.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	toggle := func() map[string]bool {
		resp := postJSON(t, srv.URL+"/api/update/favourite/user/song", map[string]string{
			"email": "u@x.com", "song_id": "song1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]bool
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		_ = resp.Body.Close()
		return out
	}

	first := toggle()
	assert.True(t, first["inserted"])
	assert.False(t, first["deleted"])

	second := toggle()
	assert.False(t, second["inserted"])
	assert.True(t, second["deleted"])

	// membership is back to empty
	resp, err := http.Get(srv.URL + "/api/fetch/favourite/user/song?email=u@x.com")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var favs struct {
		FavouriteSongs []string `json:"favouriteSongs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&favs))
	assert.Empty(t, favs.FavouriteSongs)
}

func TestFavouriteUnknownUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/update/favourite/user/song", map[string]string{
		"email": "ghost@x.com", "song_id": "song1",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendEmailQueues(t *testing.T) {
	srv, st := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/send/email", map[string]string{
		"email": "x@y.com", "subject": "hi", "body": "<p>hello</p>",
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "queued", out["status"])
	require.Len(t, st.Enqueued, 1)
	assert.Equal(t, "x@y.com", st.Enqueued[0].Recipient)
}

func TestMusicList(t *testing.T) {
	srv, _ := newTestServer(t)

	body, ctype := multipartBody(t, map[string]string{
		"metadata": `{"title":"Midnight","artist":"Nova","genre":"ambient","duration":241.5,"email":"u@x.com"}`,
	}, "file", "song.mp3", []byte("audio"))
	resp, err := http.Post(srv.URL+"/api/upload/music", ctype, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/get/music_data")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Count  int `json:"count"`
		Tracks []struct {
			Title  string `json:"title"`
			Source string `json:"source"`
			URL    string `json:"url"`
		} `json:"tracks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Midnight", out.Tracks[0].Title)
	assert.Equal(t, "upload", out.Tracks[0].Source)
}

func TestMusicUploadMalformedMetadata(t *testing.T) {
	srv, _ := newTestServer(t)

	body, ctype := multipartBody(t, map[string]string{"metadata": "{not json"}, "file", "song.mp3", []byte("audio"))
	resp, err := http.Post(srv.URL+"/api/upload/music", ctype, body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, p := range []string{"/api/health", "/api/health/db"} {
		resp, err := http.Get(srv.URL + p)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
		_ = resp.Body.Close()
	}
}
