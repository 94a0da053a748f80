package store

import (
	"context"

	"github.com/campushub/backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., mongo).
type Store interface {
	Complaints() Complaints
	Tracks() Tracks
	Users() Users
	Preferences() Preferences
	Outbox() Outbox
}

type Complaints interface {
	Create(ctx context.Context, c *model.Complaint) (*model.Complaint, error)
	Get(ctx context.Context, id string) (*model.Complaint, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Complaint, error)
}

type Tracks interface {
	Create(ctx context.Context, t *model.Track) (*model.Track, error)
	Get(ctx context.Context, id string) (*model.Track, error)
	List(ctx context.Context) ([]*model.Track, error)
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

type Preferences interface {
	Create(ctx context.Context, p *model.UserPreferences) (*model.UserPreferences, error)
	GetByEmail(ctx context.Context, email string) (*model.UserPreferences, error)
	// ToggleFavouriteSong flips membership of songID in the favourite set
	// atomically against concurrent toggles on the same user.
	ToggleFavouriteSong(ctx context.Context, email, songID string) (model.ToggleResult, error)
}

// Outbox is the notification queue. Enqueue is called from request
// workflows; the remaining methods belong to the notify worker.
type Outbox interface {
	Enqueue(ctx context.Context, n *model.Notification) error
	// LeaseBatch claims up to limit pending notifications due for delivery.
	LeaseBatch(ctx context.Context, limit int) ([]*model.Notification, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed bumps the attempt count and schedules the next attempt
	// with exponential backoff.
	MarkFailed(ctx context.Context, id string) error
}
