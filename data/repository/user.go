package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/nanoid"
	"github.com/gatherly/gatherly/paging"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrUserNotFound reports a missing user document.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists reports a duplicate user email.
	ErrUserExists = errors.New("user already exists")
)

// User represents a user profile document. CreatedAt is an ISO-8601 string
// so the (createdAt, userID) discovery order is plain lexicographic.
type User struct {
	ID         string `bson:"_id" json:"id"`
	Email      string `bson:"email" json:"email"`
	Name       string `bson:"name" json:"name"`
	Role       string `bson:"role" json:"role"`
	Profession string `bson:"profession,omitempty" json:"profession,omitempty"`
	Bio        string `bson:"bio,omitempty" json:"bio,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	CreatedAt  string `bson:"created_at" json:"created_at"`
	UpdatedAt  string `bson:"updated_at" json:"updated_at"`
}

// PageKey positions the user in (createdAt, userID) discovery order.
func (u *User) PageKey() paging.Key {
	var sortKey *string
	if u.CreatedAt != "" {
		sortKey = &u.CreatedAt
	}
	return paging.Key{SortKey: sortKey, TieBreakID: u.ID}
}

// UserFilters narrows user discovery listings. Zero values mean "no filter".
type UserFilters struct {
	Role       string
	Profession string
	City       string
}

func (f UserFilters) predicates() []paging.Predicate {
	var preds []paging.Predicate
	if f.Role != "" {
		preds = append(preds, paging.Equals("role", f.Role))
	}
	if f.Profession != "" {
		preds = append(preds, paging.Equals("profession", f.Profession))
	}
	if f.City != "" {
		preds = append(preds, paging.Equals("city", f.City))
	}
	return preds
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)

	Discover(ctx context.Context, filters UserFilters, req paging.Request) (*paging.Page[*User], error)
}

type userRepository struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *mongo.Database, log *logger.Logger) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn(ctx, "failed to create index on email", "error", err)
	}

	return &userRepository{
		collection: collection,
		breaker:    newScanBreaker("users"),
		logger:     log,
	}
}

// Create creates a new user.
func (r *userRepository) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		user.ID = nanoid.PrimaryKey()()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		r.logger.Error(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info(ctx, "user created", "id", user.ID)
	return user, nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// Update updates the mutable profile fields of an existing user.
func (r *userRepository) Update(ctx context.Context, user *User) (*User, error) {
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	update := bson.M{"$set": bson.M{
		"name":       user.Name,
		"role":       user.Role,
		"profession": user.Profession,
		"bio":        user.Bio,
		"city":       user.City,
		"state":      user.State,
		"updated_at": user.UpdatedAt,
	}}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": user.ID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to update user", "id", user.ID, "error", result.Err())
		return nil, fmt.Errorf("failed to update user: %w", result.Err())
	}

	var updated User
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated user: %w", err)
	}
	return &updated, nil
}

// Discover returns one page of user profiles matching the filters, ordered
// by (createdAt, userID).
func (r *userRepository) Discover(ctx context.Context, filters UserFilters, req paging.Request) (*paging.Page[*User], error) {
	src := &pageSource[*User]{
		coll:      r.collection,
		filters:   filters.predicates(),
		sortField: "created_at",
		breaker:   r.breaker,
	}
	return paging.Paginate[*User](ctx, src, req)
}
