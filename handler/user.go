package handler

import (
	"errors"
	"net/http"

	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/net/resp"
	"github.com/gatherly/gatherly/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for user profiles and discovery.
type UserHandler struct {
	svc    *service.UserService
	logger *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles user creation.
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			resp.Fail(c.Writer, resp.Conflict("a user with this email already exists"))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to create user", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to create user"))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, user)
}

// Get handles user retrieval by ID or, with ?by=email, by email address.
func (h *UserHandler) Get(c *gin.Context) {
	userID := c.Param("user_id")

	var (
		user *repository.User
		err  error
	)
	if c.Query("by") == "email" {
		user, err = h.svc.GetUserByEmail(c.Request.Context(), userID)
	} else {
		user, err = h.svc.GetUser(c.Request.Context(), userID)
	}
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to get user", "id", userID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to get user"))
		return
	}

	resp.Success(c.Writer, user)
}

// Update handles user profile updates.
func (h *UserHandler) Update(c *gin.Context) {
	userID := c.Param("user_id")

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to update user", "id", userID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to update user"))
		return
	}

	resp.Success(c.Writer, user)
}

// Discover handles browsing user profiles with filters and cursor pagination.
func (h *UserHandler) Discover(c *gin.Context) {
	req, err := bindPageRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	filters := repository.UserFilters{
		Role:       c.Query("role"),
		Profession: c.Query("profession"),
		City:       c.Query("city"),
	}

	page, err := h.svc.DiscoverUsers(c.Request.Context(), filters, req)
	if err != nil {
		failPaging(c, h.logger, err, "users")
		return
	}
	resp.Success(c.Writer, page)
}
