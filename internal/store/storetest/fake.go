// Package storetest provides an in-memory store.Store for tests, with
// optional error injection and call counters.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/store"
)

// Fake is an in-memory store.Store. Zero value is not usable; call New.
type Fake struct {
	mu sync.Mutex

	ComplaintsByID map[string]*model.Complaint
	TracksByID     map[string]*model.Track
	UsersByEmail   map[string]*model.User
	PrefsByEmail   map[string]*model.UserPreferences
	Enqueued       []*model.Notification

	// Error injection
	FailComplaintCreate error
	FailTrackCreate     error
	FailEnqueue         error

	// Call counters
	ComplaintCreateCalls int
	TrackCreateCalls     int
}

func New() *Fake {
	return &Fake{
		ComplaintsByID: map[string]*model.Complaint{},
		TracksByID:     map[string]*model.Track{},
		UsersByEmail:   map[string]*model.User{},
		PrefsByEmail:   map[string]*model.UserPreferences{},
	}
}

func (f *Fake) Complaints() store.Complaints   { return fakeComplaints{f} }
func (f *Fake) Tracks() store.Tracks           { return fakeTracks{f} }
func (f *Fake) Users() store.Users             { return fakeUsers{f} }
func (f *Fake) Preferences() store.Preferences { return fakePrefs{f} }
func (f *Fake) Outbox() store.Outbox           { return fakeOutbox{f} }

// HealthPing always succeeds.
func (f *Fake) HealthPing(ctx context.Context) error { return nil }

// ExpireLeases backdates every outstanding lease so tests can exercise
// reclaim without waiting out the TTL.
func (f *Fake) ExpireLeases() {
	f.mu.Lock()
	defer f.mu.Unlock()
	past := time.Now().UTC().Add(-time.Hour)
	for _, n := range f.Enqueued {
		if n.Status == model.NotifyLeased {
			n.LeaseExpiresAt = past
		}
	}
}

type fakeComplaints struct{ f *Fake }

func (c fakeComplaints) Create(_ context.Context, m *model.Complaint) (*model.Complaint, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	c.f.ComplaintCreateCalls++
	if c.f.FailComplaintCreate != nil {
		return nil, c.f.FailComplaintCreate
	}
	out := *m
	out.ID = primitive.NewObjectID()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	c.f.ComplaintsByID[out.ID.Hex()] = &out
	return &out, nil
}

func (c fakeComplaints) Get(_ context.Context, id string) (*model.Complaint, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	if m, ok := c.f.ComplaintsByID[id]; ok {
		out := *m
		return &out, nil
	}
	return nil, model.ErrNotFound
}

func (c fakeComplaints) ListByEmail(_ context.Context, email string) ([]*model.Complaint, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	var out []*model.Complaint
	for _, m := range c.f.ComplaintsByID {
		if m.Email == email {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeTracks struct{ f *Fake }

func (t fakeTracks) Create(_ context.Context, m *model.Track) (*model.Track, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	t.f.TrackCreateCalls++
	if t.f.FailTrackCreate != nil {
		return nil, t.f.FailTrackCreate
	}
	out := *m
	out.ID = primitive.NewObjectID()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	t.f.TracksByID[out.ID.Hex()] = &out
	return &out, nil
}

func (t fakeTracks) Get(_ context.Context, id string) (*model.Track, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	if m, ok := t.f.TracksByID[id]; ok {
		out := *m
		return &out, nil
	}
	return nil, model.ErrNotFound
}

func (t fakeTracks) List(_ context.Context) ([]*model.Track, error) {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	out := make([]*model.Track, 0, len(t.f.TracksByID))
	for _, m := range t.f.TracksByID {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakeUsers struct{ f *Fake }

func (u fakeUsers) Create(_ context.Context, m *model.User) (*model.User, error) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	if _, exists := u.f.UsersByEmail[m.Email]; exists {
		return nil, fmt.Errorf("%w: duplicate key", model.ErrConflict)
	}
	out := *m
	out.ID = primitive.NewObjectID()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if out.Role == "" {
		out.Role = "user"
	}
	u.f.UsersByEmail[out.Email] = &out
	return &out, nil
}

func (u fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	if m, ok := u.f.UsersByEmail[email]; ok {
		out := *m
		return &out, nil
	}
	return nil, model.ErrNotFound
}

func (u fakeUsers) List(_ context.Context) ([]*model.User, error) {
	u.f.mu.Lock()
	defer u.f.mu.Unlock()
	out := make([]*model.User, 0, len(u.f.UsersByEmail))
	for _, m := range u.f.UsersByEmail {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakePrefs struct{ f *Fake }

func (p fakePrefs) Create(_ context.Context, m *model.UserPreferences) (*model.UserPreferences, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if _, exists := p.f.PrefsByEmail[m.Email]; exists {
		return nil, fmt.Errorf("%w: duplicate key", model.ErrConflict)
	}
	out := *m
	out.ID = primitive.NewObjectID()
	if out.FavouriteSongs == nil {
		out.FavouriteSongs = []string{}
	}
	if out.FavouriteVideos == nil {
		out.FavouriteVideos = []string{}
	}
	if out.SubscriptionTier == "" {
		out.SubscriptionTier = "free"
	}
	p.f.PrefsByEmail[out.Email] = &out
	return &out, nil
}

func (p fakePrefs) GetByEmail(_ context.Context, email string) (*model.UserPreferences, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if m, ok := p.f.PrefsByEmail[email]; ok {
		out := *m
		return &out, nil
	}
	return nil, model.ErrNotFound
}

func (p fakePrefs) ToggleFavouriteSong(_ context.Context, email, songID string) (model.ToggleResult, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	m, ok := p.f.PrefsByEmail[email]
	if !ok {
		return model.ToggleResult{}, model.ErrNotFound
	}
	for i, s := range m.FavouriteSongs {
		if s == songID {
			m.FavouriteSongs = append(m.FavouriteSongs[:i], m.FavouriteSongs[i+1:]...)
			return model.ToggleResult{Deleted: true}, nil
		}
	}
	m.FavouriteSongs = append(m.FavouriteSongs, songID)
	return model.ToggleResult{Inserted: true}, nil
}

type fakeOutbox struct{ f *Fake }

func (o fakeOutbox) Enqueue(_ context.Context, n *model.Notification) error {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	if o.f.FailEnqueue != nil {
		return o.f.FailEnqueue
	}
	cp := *n
	cp.ID = primitive.NewObjectID()
	cp.Status = model.NotifyPending
	o.f.Enqueued = append(o.f.Enqueued, &cp)
	return nil
}

// LeaseBatch claims pending rows and reclaims rows whose lease has
// expired, mirroring the mongo adapter's visibility rules.
func (o fakeOutbox) LeaseBatch(_ context.Context, limit int) ([]*model.Notification, error) {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	now := time.Now().UTC()
	var out []*model.Notification
	for _, n := range o.f.Enqueued {
		if len(out) >= limit {
			break
		}
		expired := n.Status == model.NotifyLeased && n.LeaseExpiresAt.Before(now)
		if n.Status == model.NotifyPending || expired {
			n.Status = model.NotifyLeased
			n.LeaseExpiresAt = now.Add(2 * time.Minute)
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (o fakeOutbox) MarkSent(_ context.Context, id string) error {
	return o.setStatus(id, model.NotifySent, false)
}

func (o fakeOutbox) MarkFailed(_ context.Context, id string) error {
	return o.setStatus(id, model.NotifyFailed, true)
}

func (o fakeOutbox) setStatus(id, status string, bumpAttempt bool) error {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	for _, n := range o.f.Enqueued {
		if n.ID.Hex() == id {
			n.Status = status
			if bumpAttempt {
				n.AttemptCount++
			}
			return nil
		}
	}
	return model.ErrNotFound
}
