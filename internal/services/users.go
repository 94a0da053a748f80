package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/campushub/backend/internal/auth"
	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/store"
)

// UserService handles accounts, credentials, and favourites.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// CreateAccount creates a user plus its companion preferences record.
// The two inserts are not transactional: preferences go first so a
// half-created account always has a preferences row to hang favourites
// on. Duplicate emails surface as ErrConflict via the unique index.
func (s *UserService) CreateAccount(ctx context.Context, username, email, rawPassword string) (*model.User, error) {
	if username == "" || email == "" || rawPassword == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", model.ErrValidation)
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: account for %s already exists", model.ErrConflict, email)
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	if _, err := s.store.Preferences().Create(ctx, &model.UserPreferences{
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}); err != nil && !errors.Is(err, model.ErrConflict) {
		// Best-effort companion record; the account insert still decides
		// the outcome.
		log.Warn().Err(err).Str("email", email).Msg("preferences create")
	}

	hash, err := auth.HashPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	return s.store.Users().Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	})
}

// LoginResult is the structured outcome of a credential check. Unknown
// email and wrong password are distinguishable by message; this leaks
// account existence and is an accepted product decision.
type LoginResult struct {
	Status  bool   `json:"Status"`
	Message string `json:"Message"`
}

// VerifyCredentials checks email/password against the stored hash.
func (s *UserService) VerifyCredentials(ctx context.Context, email, rawPassword string) (LoginResult, error) {
	if email == "" || rawPassword == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return LoginResult{Status: false, Message: "No account found for this email."}, nil
	}
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := auth.VerifyPassword(rawPassword, u.PasswordHash)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		return LoginResult{Status: false, Message: "Incorrect password."}, nil
	}
	return LoginResult{Status: true, Message: "Login successful."}, nil
}

// ListUsers returns all accounts. Password hashes are excluded by the
// model's JSON mapping; ids serialize as hex strings.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.store.Users().List(ctx)
}

// FavouriteSongs returns the user's favourite song ids.
func (s *UserService) FavouriteSongs(ctx context.Context, email string) ([]string, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", model.ErrValidation)
	}
	p, err := s.store.Preferences().GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return p.FavouriteSongs, nil
}

// ToggleFavouriteSong flips membership of songID in the user's
// favourite set. The caller cannot force an end state, only flip it.
func (s *UserService) ToggleFavouriteSong(ctx context.Context, email, songID string) (model.ToggleResult, error) {
	if email == "" || songID == "" {
		return model.ToggleResult{}, fmt.Errorf("%w: email and song_id are required", model.ErrValidation)
	}
	return s.store.Preferences().ToggleFavouriteSong(ctx, email, songID)
}
