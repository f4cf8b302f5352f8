package mongo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clubconnect/auth-service/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on a MongoDB collection
// keyed by username.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// userDoc is the persisted record shape. The attended_events field holds
// string-encoded integers and is omitted entirely when the set is empty;
// readers treat absence and emptiness as the same state.
type userDoc struct {
	Username       string   `bson:"_id"`
	Email          string   `bson:"email"`
	Password       string   `bson:"password"`
	Role           string   `bson:"role"`
	AttendedEvents []string `bson:"attended_events,omitempty"`
	Version        int64    `bson:"version"`
	CreatedAt      int64    `bson:"created_at"`
	UpdatedAt      int64    `bson:"updated_at"`
}

// Create inserts a new account record. Using the username as _id makes the
// store itself reject concurrent duplicate registrations; the unique email
// index does the same for emails.
func (r *UserRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, toDoc(account))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyConflict(err)
		}
		return storeErr("insert user", err)
	}
	return nil
}

// emailIndex is the name mongo assigns the unique index EnsureIndexes
// creates on the email field.
const emailIndex = "email_1"

// duplicateKeyConflict tells a taken email apart from a taken username by
// the index named in the write error. _id collisions carry no index name,
// so anything that does not mention the email index is a username clash.
func duplicateKeyConflict(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if strings.Contains(writeErr.Message, emailIndex) {
				return domain.ErrEmailExists
			}
		}
	}
	return domain.ErrUserExists
}

// FindByUsername performs a point lookup by the record key.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": username})
}

// FindByEmail is the secondary lookup used only for existence checks.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("find user", err)
	}
	return fromDoc(&doc)
}

// Update replaces the record only when the stored version still matches
// the version the caller read, bumping it on success. A matched count of
// zero means another writer got there first (or the record is gone);
// either way the caller must re-read and retry.
func (r *UserRepository) Update(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(account)
	doc.Version = account.Version + 1

	res, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": account.Username, "version": account.Version},
		doc,
	)
	if err != nil {
		return storeErr("update user", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}

	account.Version = doc.Version
	return nil
}

// Delete removes a record. Peripheral capability, not used by the core flows.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": username})
	if err != nil {
		return storeErr("delete user", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index backing the registration
// uniqueness constraint. Username uniqueness rides on _id.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func toDoc(account *domain.Account) *userDoc {
	doc := &userDoc{
		Username:  account.Username,
		Email:     account.Email,
		Password:  account.PasswordHash,
		Role:      account.Role,
		Version:   account.Version,
		CreatedAt: account.CreatedAt.Unix(),
		UpdatedAt: account.UpdatedAt.Unix(),
	}
	for _, id := range account.AttendedEvents.Values() {
		doc.AttendedEvents = append(doc.AttendedEvents, strconv.Itoa(id))
	}
	return doc
}

func fromDoc(doc *userDoc) (*domain.Account, error) {
	events := domain.NewEventSet()
	for _, raw := range doc.AttendedEvents {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("decode attended event %q: %w", raw, err)
		}
		events.Add(id)
	}

	return &domain.Account{
		Username:       doc.Username,
		Email:          doc.Email,
		PasswordHash:   doc.Password,
		Role:           doc.Role,
		AttendedEvents: events,
		Version:        doc.Version,
		CreatedAt:      unixToTime(doc.CreatedAt),
		UpdatedAt:      unixToTime(doc.UpdatedAt),
	}, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// storeErr classifies infrastructure failures: deadline and cancellation
// come back as the retryable Unavailable kind, everything else is wrapped
// as-is for the generic internal mapping.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}
