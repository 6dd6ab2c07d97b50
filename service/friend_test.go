package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/paging"
)

type fakeFriendRepo struct {
	repository.FriendRepository

	requests map[string]*repository.FriendRequest
	created  []*repository.FriendRequest
	deleted  []string
}

func newFakeFriendRepo(requests ...*repository.FriendRequest) *fakeFriendRepo {
	byID := make(map[string]*repository.FriendRequest, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}
	return &fakeFriendRepo{requests: byID}
}

func (f *fakeFriendRepo) Create(ctx context.Context, senderID, receiverID string) (*repository.FriendRequest, error) {
	req := &repository.FriendRequest{
		ID:         "fr_new",
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     repository.StatusPending,
	}
	f.created = append(f.created, req)
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeFriendRepo) FindByID(ctx context.Context, id string) (*repository.FriendRequest, error) {
	if req, ok := f.requests[id]; ok {
		return req, nil
	}
	return nil, repository.ErrFriendRequestNotFound
}

// FindBetween mirrors the repository contract: a missing pair is (nil, nil),
// not an error.
func (f *fakeFriendRepo) FindBetween(ctx context.Context, userA, userB string, statuses []string) (*repository.FriendRequest, error) {
	for _, req := range f.requests {
		pair := (req.SenderID == userA && req.ReceiverID == userB) ||
			(req.SenderID == userB && req.ReceiverID == userA)
		if !pair {
			continue
		}
		for _, status := range statuses {
			if req.Status == status {
				return req, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeFriendRepo) UpdateStatus(ctx context.Context, id, status string) error {
	req, ok := f.requests[id]
	if !ok {
		return repository.ErrFriendRequestNotFound
	}
	req.Status = status
	return nil
}

func (f *fakeFriendRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.requests[id]; !ok {
		return repository.ErrFriendRequestNotFound
	}
	delete(f.requests, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeUserRepo struct {
	repository.UserRepository

	users map[string]*repository.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func friendServiceWith(friends *fakeFriendRepo, users *fakeUserRepo) *FriendService {
	d := &data.Data{FriendRepo: friends, UserRepo: users}
	return NewFriendService(d, logger.StdLogger())
}

func knownUsers(ids ...string) *fakeUserRepo {
	users := make(map[string]*repository.User, len(ids))
	for _, id := range ids {
		users[id] = &repository.User{ID: id}
	}
	return &fakeUserRepo{users: users}
}

// TestSendRequest verifies a fresh pair of users gets a pending request.
func TestSendRequest(t *testing.T) {
	repo := newFakeFriendRepo()
	svc := friendServiceWith(repo, knownUsers("u1", "u2"))

	req, err := svc.SendRequest(context.Background(), &SendRequestRequest{SenderID: "u1", ReceiverID: "u2"})
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if req.Status != repository.StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if len(repo.created) != 1 {
		t.Errorf("created %d requests, want 1", len(repo.created))
	}
}

// TestSendRequestDuplicate verifies an open request in either orientation
// blocks a new one.
func TestSendRequestDuplicate(t *testing.T) {
	cases := []struct {
		name     string
		existing *repository.FriendRequest
	}{
		{
			name:     "same orientation pending",
			existing: &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusPending},
		},
		{
			name:     "reverse orientation pending",
			existing: &repository.FriendRequest{ID: "fr1", SenderID: "u2", ReceiverID: "u1", Status: repository.StatusPending},
		},
		{
			name:     "already friends",
			existing: &repository.FriendRequest{ID: "fr1", SenderID: "u2", ReceiverID: "u1", Status: repository.StatusAccepted},
		},
	}

	for _, tc := range cases {
		svc := friendServiceWith(newFakeFriendRepo(tc.existing), knownUsers("u1", "u2"))
		_, err := svc.SendRequest(context.Background(), &SendRequestRequest{SenderID: "u1", ReceiverID: "u2"})
		if !errors.Is(err, ErrDuplicateFriendRequest) {
			t.Errorf("%s: SendRequest() error = %v, want ErrDuplicateFriendRequest", tc.name, err)
		}
	}
}

// TestSendRequestAfterRejection verifies a rejected request does not block a
// new attempt.
func TestSendRequestAfterRejection(t *testing.T) {
	rejected := &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusRejected}
	svc := friendServiceWith(newFakeFriendRepo(rejected), knownUsers("u1", "u2"))

	if _, err := svc.SendRequest(context.Background(), &SendRequestRequest{SenderID: "u1", ReceiverID: "u2"}); err != nil {
		t.Errorf("SendRequest() after rejection error = %v", err)
	}
}

// TestSendRequestGuards verifies self-requests and unknown receivers are
// rejected.
func TestSendRequestGuards(t *testing.T) {
	svc := friendServiceWith(newFakeFriendRepo(), knownUsers("u1", "u2"))

	if _, err := svc.SendRequest(context.Background(), &SendRequestRequest{SenderID: "u1", ReceiverID: "u1"}); err == nil {
		t.Error("SendRequest() to self: want error")
	}
	_, err := svc.SendRequest(context.Background(), &SendRequestRequest{SenderID: "u1", ReceiverID: "ghost"})
	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("SendRequest() to unknown receiver error = %v, want ErrUserNotFound", err)
	}
}

// TestRespond verifies accept and reject settle a pending request, and only
// the receiver may respond.
func TestRespond(t *testing.T) {
	pending := func() *repository.FriendRequest {
		return &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusPending}
	}

	svc := friendServiceWith(newFakeFriendRepo(pending()), knownUsers("u1", "u2"))
	got, err := svc.Respond(context.Background(), "fr1", &RespondRequest{UserID: "u2", Accept: true})
	if err != nil {
		t.Fatalf("Respond(accept) error = %v", err)
	}
	if got.Status != repository.StatusAccepted {
		t.Errorf("status after accept = %q, want accepted", got.Status)
	}

	svc = friendServiceWith(newFakeFriendRepo(pending()), knownUsers("u1", "u2"))
	got, err = svc.Respond(context.Background(), "fr1", &RespondRequest{UserID: "u2", Accept: false})
	if err != nil {
		t.Fatalf("Respond(reject) error = %v", err)
	}
	if got.Status != repository.StatusRejected {
		t.Errorf("status after reject = %q, want rejected", got.Status)
	}

	svc = friendServiceWith(newFakeFriendRepo(pending()), knownUsers("u1", "u2"))
	if _, err := svc.Respond(context.Background(), "fr1", &RespondRequest{UserID: "u1", Accept: true}); !errors.Is(err, ErrNotRequestReceiver) {
		t.Errorf("Respond() by sender error = %v, want ErrNotRequestReceiver", err)
	}

	settled := &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusAccepted}
	svc = friendServiceWith(newFakeFriendRepo(settled), knownUsers("u1", "u2"))
	if _, err := svc.Respond(context.Background(), "fr1", &RespondRequest{UserID: "u2", Accept: true}); !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("Respond() on settled request error = %v, want ErrRequestNotPending", err)
	}
}

// TestCancel verifies only the sender may withdraw a pending request.
func TestCancel(t *testing.T) {
	pending := &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusPending}
	repo := newFakeFriendRepo(pending)
	svc := friendServiceWith(repo, knownUsers("u1", "u2"))

	if err := svc.Cancel(context.Background(), "fr1", "u2"); !errors.Is(err, ErrNotRequestSender) {
		t.Errorf("Cancel() by receiver error = %v, want ErrNotRequestSender", err)
	}
	if err := svc.Cancel(context.Background(), "fr1", "u1"); err != nil {
		t.Errorf("Cancel() by sender error = %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "fr1" {
		t.Errorf("deleted = %v, want [fr1]", repo.deleted)
	}
}

// TestUnfriend verifies removing an accepted friendship deletes the request
// document and unknown pairs report not found.
func TestUnfriend(t *testing.T) {
	accepted := &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusAccepted}
	repo := newFakeFriendRepo(accepted)
	svc := friendServiceWith(repo, knownUsers("u1", "u2"))

	if err := svc.Unfriend(context.Background(), "u2", "u1"); err != nil {
		t.Fatalf("Unfriend() error = %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("deleted %d requests, want 1", len(repo.deleted))
	}

	if err := svc.Unfriend(context.Background(), "u1", "u3"); !errors.Is(err, repository.ErrFriendRequestNotFound) {
		t.Errorf("Unfriend() unknown pair error = %v, want ErrFriendRequestNotFound", err)
	}
}

// TestUnfriendWithoutFriendship verifies unfriending a pair with no accepted
// friendship reports not found instead of dereferencing a missing request.
func TestUnfriendWithoutFriendship(t *testing.T) {
	pending := &repository.FriendRequest{ID: "fr1", SenderID: "u1", ReceiverID: "u2", Status: repository.StatusPending}
	repo := newFakeFriendRepo(pending)
	svc := friendServiceWith(repo, knownUsers("u1", "u2"))

	if err := svc.Unfriend(context.Background(), "u1", "u2"); !errors.Is(err, repository.ErrFriendRequestNotFound) {
		t.Errorf("Unfriend() pending-only pair error = %v, want ErrFriendRequestNotFound", err)
	}

	svc = friendServiceWith(newFakeFriendRepo(), knownUsers("u1", "u2"))
	if err := svc.Unfriend(context.Background(), "u1", "u2"); !errors.Is(err, repository.ErrFriendRequestNotFound) {
		t.Errorf("Unfriend() no-request pair error = %v, want ErrFriendRequestNotFound", err)
	}
	if len(repo.deleted) != 0 {
		t.Errorf("deleted = %v, want none", repo.deleted)
	}
}

// TestListDefaultsToPending verifies listing without a status filter asks the
// repository for pending requests.
func TestListDefaultsToPending(t *testing.T) {
	repo := &statusRecordingFriendRepo{}
	svc := friendServiceWith(&repo.fakeFriendRepo, knownUsers())
	svc.data.FriendRepo = repo

	if _, err := svc.ListIncoming(context.Background(), "u1", "", paging.Request{PageSize: 10}); err != nil {
		t.Fatalf("ListIncoming() error = %v", err)
	}
	if repo.lastStatus != repository.StatusPending {
		t.Errorf("status = %q, want pending", repo.lastStatus)
	}

	if _, err := svc.ListOutgoing(context.Background(), "u1", repository.StatusRejected, paging.Request{PageSize: 10}); err != nil {
		t.Fatalf("ListOutgoing() error = %v", err)
	}
	if repo.lastStatus != repository.StatusRejected {
		t.Errorf("status = %q, want rejected", repo.lastStatus)
	}
}

type statusRecordingFriendRepo struct {
	fakeFriendRepo

	lastStatus string
}

func (f *statusRecordingFriendRepo) ListIncoming(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*repository.FriendRequest], error) {
	f.lastStatus = status
	return &paging.Page[*repository.FriendRequest]{Items: []*repository.FriendRequest{}, PageSize: req.PageSize}, nil
}

func (f *statusRecordingFriendRepo) ListOutgoing(ctx context.Context, userID, status string, req paging.Request) (*paging.Page[*repository.FriendRequest], error) {
	f.lastStatus = status
	return &paging.Page[*repository.FriendRequest]{Items: []*repository.FriendRequest{}, PageSize: req.PageSize}, nil
}
