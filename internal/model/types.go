package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint lifecycle states. New complaints always start as pending;
// transitions happen through admin flows outside this service.
const (
	ComplaintPending  = "pending"
	ComplaintOpen     = "open"
	ComplaintResolved = "resolved"
)

// Track sources.
const (
	SourceUpload  = "upload"
	SourceYouTube = "youtube"
)

// Complaint is a student complaint with an attached image stored on the
// media host. The ObjectID serializes to its hex string in JSON.
type Complaint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName    string             `bson:"fullname" json:"fullname"`
	Email       string             `bson:"email" json:"email"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"image_url" json:"url"`
	PublicID    string             `bson:"public_id" json:"public_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Track is a persisted music track sourced from a direct upload or a
// YouTube extraction.
type Track struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Artist        string             `bson:"artist" json:"artist"`
	Genre         string             `bson:"genre,omitempty" json:"genre,omitempty"`
	Duration      float64            `bson:"duration,omitempty" json:"duration,omitempty"`
	UploaderEmail string             `bson:"uploader_email,omitempty" json:"uploaderEmail,omitempty"`
	Source        string             `bson:"source" json:"source"`
	MediaURL      string             `bson:"media_url" json:"url"`
	MediaID       string             `bson:"media_id" json:"public_id"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// User is an account record. The password hash never leaves the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	IsVerified   bool               `bson:"is_verified" json:"isVerified"`
	Role         string             `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// UserPreferences is the companion record created alongside an account,
// keyed by email. Favourite sets have toggle semantics (no duplicates).
type UserPreferences struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email            string             `bson:"email" json:"email"`
	FavouriteSongs   []string           `bson:"favourite_songs" json:"favouriteSongs"`
	FavouriteVideos  []string           `bson:"favourite_videos" json:"favouriteVideos"`
	SubscriptionTier string             `bson:"subscription_tier" json:"subscriptionTier"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
}

// Notification is an outbox document drained by the notify worker.
// The enqueuing workflow never observes delivery outcome.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Recipient     string             `bson:"recipient" json:"recipient"`
	Subject       string             `bson:"subject" json:"subject"`
	HTMLBody      string             `bson:"html_body" json:"-"`
	Status         string             `bson:"status" json:"status"`
	AttemptCount   int                `bson:"attempt_count" json:"attemptCount"`
	NextAttemptAt  time.Time          `bson:"next_attempt_at" json:"nextAttemptAt"`
	LeaseExpiresAt time.Time          `bson:"lease_expires_at,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
}

// Notification statuses. A leased row belongs to exactly one worker
// until its lease expires; expired leases are reclaimable.
const (
	NotifyPending = "pending"
	NotifyLeased  = "leased"
	NotifySent    = "sent"
	NotifyFailed  = "failed"
)

// ToggleResult reports which branch a favourite toggle took. Exactly one
// of Inserted/Deleted is true.
type ToggleResult struct {
	Inserted bool `json:"inserted"`
	Deleted  bool `json:"deleted"`
}
