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
)

// ErrFriendRequestNotFound reports a missing friend request document.
var ErrFriendRequestNotFound = errors.New("friend request not found")

// Friend request statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// FriendRequest represents a friend request document. CreatedAt is an
// ISO-8601 string so the (createdAt, requestID) listing order is plain
// lexicographic.
type FriendRequest struct {
	ID         string `bson:"_id" json:"id"`
	SenderID   string `bson:"sender_id" json:"sender_id"`
	ReceiverID string `bson:"receiver_id" json:"receiver_id"`
	Status     string `bson:"status" json:"status"`
	CreatedAt  string `bson:"created_at" json:"created_at"`
	UpdatedAt  string `bson:"updated_at" json:"updated_at"`
}

// PageKey positions the request in (createdAt, requestID) listing order.
func (f *FriendRequest) PageKey() paging.Key {
	var sortKey *string
	if f.CreatedAt != "" {
		sortKey = &f.CreatedAt
	}
	return paging.Key{SortKey: sortKey, TieBreakID: f.ID}
}

// FriendRepository defines the interface for friend request data operations.
type FriendRepository interface {
	Create(ctx context.Context, senderID, receiverID string) (*FriendRequest, error)
	FindByID(ctx context.Context, id string) (*FriendRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	FindBetween(ctx context.Context, userA, userB string, statuses []string) (*FriendRequest, error)
	AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)

	ListIncoming(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*FriendRequest], error)
	ListOutgoing(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*FriendRequest], error)
}

type friendRepository struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewFriendRepository creates a new friend request repository instance.
func NewFriendRepository(db *mongo.Database, log *logger.Logger) FriendRepository {
	collection := db.Collection("friend_requests")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn(ctx, "failed to create friend request indexes", "error", err)
	}

	return &friendRepository{
		collection: collection,
		breaker:    newScanBreaker("friend_requests"),
		logger:     log,
	}
}

// Create inserts a new pending friend request.
func (r *friendRepository) Create(ctx context.Context, senderID, receiverID string) (*FriendRequest, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	request := &FriendRequest{
		ID:         nanoid.PrimaryKey()(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := r.collection.InsertOne(ctx, request); err != nil {
		r.logger.Error(ctx, "failed to create friend request", "error", err)
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	r.logger.Info(ctx, "friend request created", "id", request.ID, "sender", senderID, "receiver", receiverID)
	return request, nil
}

// FindByID retrieves a friend request by ID.
func (r *friendRepository) FindByID(ctx context.Context, id string) (*FriendRequest, error) {
	var request FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFriendRequestNotFound
		}
		r.logger.Error(ctx, "failed to find friend request", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

// UpdateStatus moves a friend request through its status lifecycle.
func (r *friendRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}})
	if err != nil {
		r.logger.Error(ctx, "failed to update friend request", "id", id, "error", err)
		return fmt.Errorf("failed to update friend request: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

// Delete removes a friend request.
func (r *friendRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error(ctx, "failed to delete friend request", "id", id, "error", err)
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrFriendRequestNotFound
	}
	return nil
}

// FindBetween returns the request between two users in either orientation,
// optionally restricted to statuses. Nil result means no request exists.
func (r *friendRepository) FindBetween(ctx context.Context, userA, userB string, statuses []string) (*FriendRequest, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userA, "receiver_id": userB},
		bson.M{"sender_id": userB, "receiver_id": userA},
	}}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	var request FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error(ctx, "failed to find friend request between users", "error", err)
		return nil, fmt.Errorf("failed to find friend request: %w", err)
	}
	return &request, nil
}

// AcceptedFriendIDs returns the ids of every user with an accepted
// friendship with userID.
func (r *friendRepository) AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	filter := bson.M{
		"status": StatusAccepted,
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		},
	}

	cur, err := r.collection.Find(ctx, filter)
	if err != nil {
		r.logger.Error(ctx, "failed to list friendships", "user", userID, "error", err)
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}

	var requests []*FriendRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friendships: %w", err)
	}

	friends := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.SenderID == userID {
			friends = append(friends, req.ReceiverID)
		} else {
			friends = append(friends, req.SenderID)
		}
	}
	return friends, nil
}

// ListIncoming returns one page of requests received by a user, ordered by
// (createdAt, requestID).
func (r *friendRepository) ListIncoming(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*FriendRequest], error) {
	preds := []paging.Predicate{paging.Equals("receiver_id", userID)}
	if status != "" {
		preds = append(preds, paging.Equals("status", status))
	}
	return r.paginate(ctx, preds, req)
}

// ListOutgoing returns one page of requests sent by a user.
func (r *friendRepository) ListOutgoing(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*FriendRequest], error) {
	preds := []paging.Predicate{paging.Equals("sender_id", userID)}
	if status != "" {
		preds = append(preds, paging.Equals("status", status))
	}
	return r.paginate(ctx, preds, req)
}

func (r *friendRepository) paginate(ctx context.Context, preds []paging.Predicate, req paging.Request) (*paging.Page[*FriendRequest], error) {
	src := &pageSource[*FriendRequest]{
		coll:      r.collection,
		filters:   preds,
		sortField: "created_at",
		breaker:   r.breaker,
	}
	return paging.Paginate[*FriendRequest](ctx, src, req)
}
