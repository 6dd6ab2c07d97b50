// Package handler provides the HTTP layer for the events, friends and user
// discovery API.
package handler

import (
	"errors"
	"strings"

	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/net/resp"
	"github.com/gatherly/gatherly/paging"
	"github.com/gatherly/gatherly/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Event  *EventHandler
	Friend *FriendHandler
	User   *UserHandler
	logger *logger.Logger
}

// NewHandler creates a new handler instance with all sub-handlers initialized.
func NewHandler(svc *service.Service, logger *logger.Logger) *Handler {
	return &Handler{
		Event:  NewEventHandler(svc.Event, logger),
		Friend: NewFriendHandler(svc.Friend, logger),
		User:   NewUserHandler(svc.User, logger),
		logger: logger,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.POST("", h.Event.Create)
			events.GET("", h.Event.List)
			events.GET("/nearby", h.Event.ListNearby)
			events.GET("/external", h.Event.ListExternal)
			events.GET("/:event_id", h.Event.Get)
			events.PUT("/:event_id", h.Event.Update)
			events.DELETE("/:event_id", h.Event.Delete)
			events.POST("/:event_id/archive", h.Event.Archive)
			events.POST("/:event_id/unarchive", h.Event.Unarchive)
			events.POST("/:event_id/rsvp", h.Event.RSVP)
			events.DELETE("/:event_id/rsvp", h.Event.CancelRSVP)
			events.PUT("/:event_id/organizers", h.Event.SetOrganizers)
			events.PUT("/:event_id/moderators", h.Event.SetModerators)
		}

		friends := api.Group("/friends")
		{
			friends.POST("/requests", h.Friend.Send)
			friends.POST("/requests/:request_id/respond", h.Friend.Respond)
			friends.DELETE("/requests/:request_id", h.Friend.Cancel)
			friends.GET("/requests/incoming", h.Friend.ListIncoming)
			friends.GET("/requests/outgoing", h.Friend.ListOutgoing)
			friends.GET("", h.Friend.Friends)
			friends.DELETE("/:friend_id", h.Friend.Unfriend)
		}

		users := api.Group("/users")
		{
			users.POST("", h.User.Create)
			users.GET("/discover", h.User.Discover)
			users.GET("/:user_id", h.User.Get)
			users.PUT("/:user_id", h.User.Update)
			users.GET("/me/created-events", h.Event.ListCreated)
			users.GET("/me/organized-events", h.Event.ListOrganized)
			users.GET("/me/moderated-events", h.Event.ListModerated)
			users.GET("/me/rsvped-events", h.Event.ListRSVPed)
			users.GET("/me/archived-events", h.Event.ListArchived)
		}
	}
}

// bindPageRequest reads the pagination query parameters, applying the default
// page size when none is given. Out-of-range values pass through; the paging
// engine rejects them.
func bindPageRequest(c *gin.Context) (paging.Request, error) {
	req := paging.Request{PageSize: 20}
	if err := c.ShouldBindQuery(&req); err != nil {
		return paging.Request{}, err
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}
	return req, nil
}

// failPaging writes the HTTP response for a listing error, folding the paging
// error classes into their status codes.
func failPaging(c *gin.Context, log *logger.Logger, err error, what string) {
	switch {
	case errors.Is(err, paging.ErrInvalidPageSize), errors.Is(err, paging.ErrInvalidDirection):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	case errors.Is(err, paging.ErrUnsupportedQuery):
		log.Error(c.Request.Context(), "listing not executable", "what", what, "error", err)
		resp.Fail(c.Writer, resp.DataUnavailable("this listing is temporarily unavailable"))
	case errors.Is(err, paging.ErrStoreUnavailable):
		log.Error(c.Request.Context(), "store unavailable", "what", what, "error", err)
		resp.Fail(c.Writer, resp.RetryableUnavailable("please retry shortly"))
	default:
		log.Error(c.Request.Context(), "failed to list", "what", what, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to list "+what))
	}
}

// badRequest writes a 400, flattening field validation failures into
// readable messages.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" validation")
		}
		resp.Fail(c.Writer, resp.BadRequest(strings.Join(msgs, "; ")))
		return
	}
	resp.Fail(c.Writer, resp.BadRequest(err.Error()))
}

// failNotFound writes a 404 for known missing-document errors and reports
// whether it handled the error.
func failNotFound(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		resp.Fail(c.Writer, resp.NotFound("event not found"))
	case errors.Is(err, repository.ErrFriendRequestNotFound):
		resp.Fail(c.Writer, resp.NotFound("friend request not found"))
	case errors.Is(err, repository.ErrUserNotFound):
		resp.Fail(c.Writer, resp.NotFound("user not found"))
	default:
		return false
	}
	return true
}
