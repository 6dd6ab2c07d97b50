package handler

import (
	"errors"
	"net/http"

	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/net/resp"
	"github.com/gatherly/gatherly/service"

	"github.com/gin-gonic/gin"
)

// FriendHandler handles HTTP requests for friend requests and friendships.
type FriendHandler struct {
	svc    *service.FriendService
	logger *logger.Logger
}

// NewFriendHandler creates a new friend handler.
func NewFriendHandler(svc *service.FriendService, logger *logger.Logger) *FriendHandler {
	return &FriendHandler{
		svc:    svc,
		logger: logger,
	}
}

// Send handles sending a friend request.
func (h *FriendHandler) Send(c *gin.Context) {
	var req service.SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	request, err := h.svc.SendRequest(c.Request.Context(), &req)
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrDuplicateFriendRequest) {
			resp.Fail(c.Writer, resp.Conflict(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to send friend request", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to send friend request"))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, request)
}

// Respond handles accepting or rejecting a friend request.
func (h *FriendHandler) Respond(c *gin.Context) {
	requestID := c.Param("request_id")

	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	request, err := h.svc.Respond(c.Request.Context(), requestID, &req)
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotRequestReceiver) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		if errors.Is(err, service.ErrRequestNotPending) {
			resp.Fail(c.Writer, resp.Conflict(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to respond to friend request", "id", requestID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to respond to friend request"))
		return
	}

	resp.Success(c.Writer, request)
}

// Cancel handles withdrawing a pending friend request.
func (h *FriendHandler) Cancel(c *gin.Context) {
	requestID := c.Param("request_id")
	userID := c.Query("user_id")
	if userID == "" {
		resp.Fail(c.Writer, resp.BadRequest("user_id is required"))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), requestID, userID); err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotRequestSender) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		if errors.Is(err, service.ErrRequestNotPending) {
			resp.Fail(c.Writer, resp.Conflict(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to cancel friend request", "id", requestID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to cancel friend request"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "friend request cancelled"})
}

// Unfriend handles removing an accepted friendship.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	friendID := c.Param("friend_id")
	userID := c.Query("user_id")
	if userID == "" {
		resp.Fail(c.Writer, resp.BadRequest("user_id is required"))
		return
	}

	if err := h.svc.Unfriend(c.Request.Context(), userID, friendID); err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to unfriend", "friend_id", friendID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to unfriend"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "friend removed"})
}

// ListIncoming handles listing friend requests the user received.
func (h *FriendHandler) ListIncoming(c *gin.Context) {
	h.listRequests(c, true)
}

// ListOutgoing handles listing friend requests the user sent.
func (h *FriendHandler) ListOutgoing(c *gin.Context) {
	h.listRequests(c, false)
}

func (h *FriendHandler) listRequests(c *gin.Context, incoming bool) {
	req, err := bindPageRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		resp.Fail(c.Writer, resp.BadRequest("user_id is required"))
		return
	}
	status := c.Query("status")

	list := h.svc.ListOutgoing
	what := "outgoing friend requests"
	if incoming {
		list = h.svc.ListIncoming
		what = "incoming friend requests"
	}

	page, err := list(c.Request.Context(), userID, status, req)
	if err != nil {
		failPaging(c, h.logger, err, what)
		return
	}
	resp.Success(c.Writer, page)
}

// Friends handles listing the user's accepted friend IDs.
func (h *FriendHandler) Friends(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		resp.Fail(c.Writer, resp.BadRequest("user_id is required"))
		return
	}

	ids, err := h.svc.Friends(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to list friends", "user_id", userID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to list friends"))
		return
	}

	resp.Success(c.Writer, map[string]any{"friend_ids": ids})
}
