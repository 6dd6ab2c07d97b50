package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/paging"
)

var (
	// ErrDuplicateFriendRequest reports an open or accepted request already
	// connecting the two users.
	ErrDuplicateFriendRequest = errors.New("friend request already exists between these users")
	// ErrNotRequestReceiver reports a respond attempt by someone other than
	// the request's receiver.
	ErrNotRequestReceiver = errors.New("only the receiver can respond to a friend request")
	// ErrNotRequestSender reports a cancel attempt by someone other than the
	// request's sender.
	ErrNotRequestSender = errors.New("only the sender can cancel a friend request")
	// ErrRequestNotPending reports a respond or cancel attempt on a request
	// that was already settled.
	ErrRequestNotPending = errors.New("friend request is not pending")
)

// FriendService handles friend request and friendship business logic.
type FriendService struct {
	data   *data.Data
	logger *logger.Logger
}

// NewFriendService creates a new friend service.
func NewFriendService(d *data.Data, logger *logger.Logger) *FriendService {
	return &FriendService{
		data:   d,
		logger: logger,
	}
}

// SendRequestRequest represents the request to send a friend request.
type SendRequestRequest struct {
	SenderID   string `json:"sender_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
}

// RespondRequest represents the request to accept or reject a friend request.
type RespondRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Accept bool   `json:"accept"`
}

// SendRequest creates a pending friend request from sender to receiver. At
// most one pending or accepted request may connect two users, in either
// orientation.
func (s *FriendService) SendRequest(ctx context.Context, req *SendRequestRequest) (*repository.FriendRequest, error) {
	if req.SenderID == req.ReceiverID {
		return nil, fmt.Errorf("cannot send a friend request to yourself")
	}

	if _, err := s.data.UserRepo.FindByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	existing, err := s.data.FriendRepo.FindBetween(ctx, req.SenderID, req.ReceiverID,
		[]string{repository.StatusPending, repository.StatusAccepted})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateFriendRequest
	}

	return s.data.FriendRepo.Create(ctx, req.SenderID, req.ReceiverID)
}

// Respond accepts or rejects a pending friend request.
func (s *FriendService) Respond(ctx context.Context, requestID string, req *RespondRequest) (*repository.FriendRequest, error) {
	request, err := s.data.FriendRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ReceiverID != req.UserID {
		return nil, ErrNotRequestReceiver
	}
	if request.Status != repository.StatusPending {
		return nil, ErrRequestNotPending
	}

	status := repository.StatusRejected
	if req.Accept {
		status = repository.StatusAccepted
	}
	if err := s.data.FriendRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	request.Status = status
	s.logger.Info(ctx, "friend request settled", "id", requestID, "status", status)
	return request, nil
}

// Cancel withdraws a pending friend request.
func (s *FriendService) Cancel(ctx context.Context, requestID, userID string) error {
	request, err := s.data.FriendRepo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.SenderID != userID {
		return ErrNotRequestSender
	}
	if request.Status != repository.StatusPending {
		return ErrRequestNotPending
	}
	return s.data.FriendRepo.Delete(ctx, requestID)
}

// Unfriend removes an accepted friendship between two users.
func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) error {
	request, err := s.data.FriendRepo.FindBetween(ctx, userID, friendID,
		[]string{repository.StatusAccepted})
	if err != nil {
		return err
	}
	if request == nil {
		return repository.ErrFriendRequestNotFound
	}
	return s.data.FriendRepo.Delete(ctx, request.ID)
}

// ListIncoming retrieves one page of friend requests sent to the user.
func (s *FriendService) ListIncoming(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*repository.FriendRequest], error) {
	if status == "" {
		status = repository.StatusPending
	}
	return s.data.FriendRepo.ListIncoming(ctx, userID, status, req)
}

// ListOutgoing retrieves one page of friend requests sent by the user.
func (s *FriendService) ListOutgoing(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*repository.FriendRequest], error) {
	if status == "" {
		status = repository.StatusPending
	}
	return s.data.FriendRepo.ListOutgoing(ctx, userID, status, req)
}

// Friends retrieves the user IDs of all accepted friends.
func (s *FriendService) Friends(ctx context.Context, userID string) ([]string, error) {
	return s.data.FriendRepo.AcceptedFriendIDs(ctx, userID)
}
