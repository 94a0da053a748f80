// Package mongo implements store.Store on top of the MongoDB driver.
//
// The driver pools connections internally; every operation here runs
// under a bounded per-operation context so a wedged server cannot pin a
// request, and the pooled connection is returned on every exit path.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campushub/backend/internal/model"
	"github.com/campushub/backend/internal/store"
)

const (
	colComplaints  = "complaints"
	colTracks      = "tracks"
	colUsers       = "users"
	colPreferences = "user_preferences"
	colOutbox      = "notifications"
)

// maxAttempts is the delivery attempt ceiling before an outbox row is
// parked as failed.
const maxAttempts = 5

// leaseTTL bounds how long a leased outbox row stays invisible. A worker
// that crashes between lease and mark forfeits the row once the lease
// expires, and the next LeaseBatch reclaims it.
const leaseTTL = 2 * time.Minute

// Open connects to MongoDB and verifies connectivity with a ping.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	}
	return client, nil
}

// New constructs a Mongo-backed store over an established client.
// opTimeout bounds every individual operation.
func New(client *mongo.Client, database string, opTimeout time.Duration) store.Store {
	if opTimeout <= 0 {
		opTimeout = 10 * time.Second
	}
	return &mongoStore{db: client.Database(database), timeout: opTimeout}
}

type mongoStore struct {
	db      *mongo.Database
	timeout time.Duration
}

func (s *mongoStore) Complaints() store.Complaints   { return &complaints{s} }
func (s *mongoStore) Tracks() store.Tracks           { return &tracks{s} }
func (s *mongoStore) Users() store.Users             { return &users{s} }
func (s *mongoStore) Preferences() store.Preferences { return &preferences{s} }
func (s *mongoStore) Outbox() store.Outbox           { return &outbox{s} }

// HealthPing implements health probing for the Mongo-backed store.
func (s *mongoStore) HealthPing(ctx context.Context) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the unique and scheduling indexes the adapter
// relies on. The unique email index is what turns the source's racy
// check-then-insert into a store-enforced constraint.
func EnsureIndexes(ctx context.Context, st store.Store) error {
	s, ok := st.(*mongoStore)
	if !ok {
		return fmt.Errorf("EnsureIndexes requires the mongo adapter")
	}
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := s.db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("users email index: %w", err)
	}
	if _, err := s.db.Collection(colPreferences).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("preferences email index: %w", err)
	}
	if _, err := s.db.Collection(colOutbox).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "next_attempt_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("outbox schedule index: %w", err)
	}
	if _, err := s.db.Collection(colOutbox).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "lease_expires_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("outbox lease index: %w", err)
	}
	return nil
}

func (s *mongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// classify maps driver errors onto the model's error taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return model.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: duplicate key", model.ErrConflict)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
	default:
		return err
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", model.ErrValidation, id)
	}
	return oid, nil
}

// --- Complaints ---

type complaints struct{ s *mongoStore }

func (c *complaints) Create(ctx context.Context, m *model.Complaint) (*model.Complaint, error) {
	ctx, cancel := c.s.opCtx(ctx)
	defer cancel()

	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	res, err := c.s.db.Collection(colComplaints).InsertOne(ctx, &out)
	if err != nil {
		return nil, classify(err)
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (c *complaints) Get(ctx context.Context, id string) (*model.Complaint, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := c.s.opCtx(ctx)
	defer cancel()

	var out model.Complaint
	err = c.s.db.Collection(colComplaints).FindOne(ctx, bson.M{"_id": oid}).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

func (c *complaints) ListByEmail(ctx context.Context, email string) ([]*model.Complaint, error) {
	ctx, cancel := c.s.opCtx(ctx)
	defer cancel()

	cur, err := c.s.db.Collection(colComplaints).Find(ctx, bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	var out []*model.Complaint
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// --- Tracks ---

type tracks struct{ s *mongoStore }

func (t *tracks) Create(ctx context.Context, m *model.Track) (*model.Track, error) {
	ctx, cancel := t.s.opCtx(ctx)
	defer cancel()

	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	res, err := t.s.db.Collection(colTracks).InsertOne(ctx, &out)
	if err != nil {
		return nil, classify(err)
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (t *tracks) Get(ctx context.Context, id string) (*model.Track, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := t.s.opCtx(ctx)
	defer cancel()

	var out model.Track
	err = t.s.db.Collection(colTracks).FindOne(ctx, bson.M{"_id": oid}).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

func (t *tracks) List(ctx context.Context) ([]*model.Track, error) {
	ctx, cancel := t.s.opCtx(ctx)
	defer cancel()

	cur, err := t.s.db.Collection(colTracks).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	var out []*model.Track
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// --- Users ---

type users struct{ s *mongoStore }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	ctx, cancel := u.s.opCtx(ctx)
	defer cancel()

	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if out.Role == "" {
		out.Role = "user"
	}
	res, err := u.s.db.Collection(colUsers).InsertOne(ctx, &out)
	if err != nil {
		return nil, classify(err)
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := u.s.opCtx(ctx)
	defer cancel()

	var out model.User
	err := u.s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	ctx, cancel := u.s.opCtx(ctx)
	defer cancel()

	cur, err := u.s.db.Collection(colUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	var out []*model.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// --- Preferences ---

type preferences struct{ s *mongoStore }

func (p *preferences) Create(ctx context.Context, m *model.UserPreferences) (*model.UserPreferences, error) {
	ctx, cancel := p.s.opCtx(ctx)
	defer cancel()

	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if out.FavouriteSongs == nil {
		out.FavouriteSongs = []string{}
	}
	if out.FavouriteVideos == nil {
		out.FavouriteVideos = []string{}
	}
	if out.SubscriptionTier == "" {
		out.SubscriptionTier = "free"
	}
	res, err := p.s.db.Collection(colPreferences).InsertOne(ctx, &out)
	if err != nil {
		return nil, classify(err)
	}
	out.ID = res.InsertedID.(primitive.ObjectID)
	return &out, nil
}

func (p *preferences) GetByEmail(ctx context.Context, email string) (*model.UserPreferences, error) {
	ctx, cancel := p.s.opCtx(ctx)
	defer cancel()

	var out model.UserPreferences
	err := p.s.db.Collection(colPreferences).FindOne(ctx, bson.M{"email": email}).Decode(&out)
	if err != nil {
		return nil, classify(err)
	}
	return &out, nil
}

// ToggleFavouriteSong uses conditional update operators instead of a
// read-modify-write, so two concurrent toggles on the same user cannot
// lose an update: $pull only matches when the song is present, and
// $addToSet never duplicates.
func (p *preferences) ToggleFavouriteSong(ctx context.Context, email, songID string) (model.ToggleResult, error) {
	ctx, cancel := p.s.opCtx(ctx)
	defer cancel()

	col := p.s.db.Collection(colPreferences)

	res, err := col.UpdateOne(ctx,
		bson.M{"email": email, "favourite_songs": songID},
		bson.M{"$pull": bson.M{"favourite_songs": songID}})
	if err != nil {
		return model.ToggleResult{}, classify(err)
	}
	if res.ModifiedCount == 1 {
		return model.ToggleResult{Deleted: true}, nil
	}

	res, err = col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$addToSet": bson.M{"favourite_songs": songID}})
	if err != nil {
		return model.ToggleResult{}, classify(err)
	}
	if res.MatchedCount == 0 {
		return model.ToggleResult{}, fmt.Errorf("%w: preferences for %s", model.ErrNotFound, email)
	}
	return model.ToggleResult{Inserted: true}, nil
}

// --- Outbox ---

type outbox struct{ s *mongoStore }

func (o *outbox) Enqueue(ctx context.Context, n *model.Notification) error {
	ctx, cancel := o.s.opCtx(ctx)
	defer cancel()

	doc := *n
	now := time.Now().UTC()
	doc.Status = model.NotifyPending
	doc.AttemptCount = 0
	doc.NextAttemptAt = now
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	_, err := o.s.db.Collection(colOutbox).InsertOne(ctx, &doc)
	return classify(err)
}

// LeaseBatch claims due rows one at a time with FindOneAndUpdate so
// concurrent workers never deliver the same notification twice. Each
// lease carries an expiry; rows whose lease has lapsed are treated as
// due again, so a crashed worker cannot strand a notification.
func (o *outbox) LeaseBatch(ctx context.Context, limit int) ([]*model.Notification, error) {
	ctx, cancel := o.s.opCtx(ctx)
	defer cancel()

	col := o.s.db.Collection(colOutbox)
	now := time.Now().UTC()

	due := bson.M{"$or": bson.A{
		bson.M{"status": model.NotifyPending, "next_attempt_at": bson.M{"$lte": now}},
		bson.M{"status": model.NotifyLeased, "lease_expires_at": bson.M{"$lt": now}},
	}}
	claim := bson.M{"$set": bson.M{
		"status":           model.NotifyLeased,
		"lease_expires_at": now.Add(leaseTTL),
	}}

	var out []*model.Notification
	for i := 0; i < limit; i++ {
		var n model.Notification
		err := col.FindOneAndUpdate(ctx, due, claim,
			options.FindOneAndUpdate().SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}),
		).Decode(&n)
		if errors.Is(err, mongo.ErrNoDocuments) {
			break
		}
		if err != nil {
			return out, classify(err)
		}
		out = append(out, &n)
	}
	return out, nil
}

func (o *outbox) MarkSent(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := o.s.opCtx(ctx)
	defer cancel()

	_, err = o.s.db.Collection(colOutbox).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"status": model.NotifySent}})
	return classify(err)
}

// MarkFailed bumps the attempt counter and reschedules (or parks) the
// row in a single pipeline update, so the increment, terminal check,
// and backoff schedule apply atomically. The backoff is
// min(2^attempts, 300) seconds.
func (o *outbox) MarkFailed(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	ctx, cancel := o.s.opCtx(ctx)
	defer cancel()

	update := bson.A{
		bson.M{"$set": bson.M{"attempt_count": bson.M{"$add": bson.A{"$attempt_count", 1}}}},
		bson.M{"$set": bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$attempt_count", maxAttempts}},
				model.NotifyFailed,
				model.NotifyPending,
			}},
			"next_attempt_at": bson.M{"$add": bson.A{
				"$$NOW",
				bson.M{"$multiply": bson.A{
					bson.M{"$min": bson.A{bson.M{"$pow": bson.A{2, "$attempt_count"}}, 300}},
					1000,
				}},
			}},
		}},
	}
	_, err = o.s.db.Collection(colOutbox).UpdateOne(ctx, bson.M{"_id": oid}, update)
	return classify(err)
}
