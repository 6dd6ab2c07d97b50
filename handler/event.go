package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/net/resp"
	"github.com/gatherly/gatherly/paging"
	"github.com/gatherly/gatherly/service"

	"github.com/gin-gonic/gin"
)

// EventHandler handles HTTP requests for events.
type EventHandler struct {
	svc    *service.EventService
	logger *logger.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(svc *service.EventService, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles event creation.
func (h *EventHandler) Create(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	event, err := h.svc.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to create event", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to create event"))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, event)
}

// Get handles event retrieval.
func (h *EventHandler) Get(c *gin.Context) {
	eventID := c.Param("event_id")

	event, err := h.svc.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to get event", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to get event"))
		return
	}

	resp.Success(c.Writer, event)
}

// Update handles event updates.
func (h *EventHandler) Update(c *gin.Context) {
	eventID := c.Param("event_id")
	email := c.Query("email")

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	event, err := h.svc.UpdateEvent(c.Request.Context(), eventID, email, &req)
	if err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotEventManager) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to update event", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to update event"))
		return
	}

	resp.Success(c.Writer, event)
}

// Delete handles event deletion.
func (h *EventHandler) Delete(c *gin.Context) {
	eventID := c.Param("event_id")
	email := c.Query("email")

	if err := h.svc.DeleteEvent(c.Request.Context(), eventID, email); err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotEventManager) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to delete event", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to delete event"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "event deleted"})
}

// Archive handles archiving an event.
func (h *EventHandler) Archive(c *gin.Context) {
	eventID := c.Param("event_id")

	var req service.ArchiveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	if err := h.svc.ArchiveEvent(c.Request.Context(), eventID, &req); err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotEventManager) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to archive event", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to archive event"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "event archived"})
}

// Unarchive handles restoring an archived event.
func (h *EventHandler) Unarchive(c *gin.Context) {
	eventID := c.Param("event_id")
	email := c.Query("email")

	if err := h.svc.UnarchiveEvent(c.Request.Context(), eventID, email); err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotEventManager) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to unarchive event", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to unarchive event"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "event restored"})
}

// RSVP handles RSVPing to an event.
func (h *EventHandler) RSVP(c *gin.Context) {
	eventID := c.Param("event_id")
	email := c.Query("email")
	if email == "" {
		resp.Fail(c.Writer, resp.BadRequest("email is required"))
		return
	}

	if err := h.svc.RSVP(c.Request.Context(), eventID, email); err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to rsvp", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to rsvp"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "rsvp recorded"})
}

// CancelRSVP handles withdrawing an RSVP.
func (h *EventHandler) CancelRSVP(c *gin.Context) {
	eventID := c.Param("event_id")
	email := c.Query("email")
	if email == "" {
		resp.Fail(c.Writer, resp.BadRequest("email is required"))
		return
	}

	if err := h.svc.CancelRSVP(c.Request.Context(), eventID, email); err != nil {
		if failNotFound(c, err) {
			return
		}
		h.logger.Error(c.Request.Context(), "failed to cancel rsvp", "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to cancel rsvp"))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": "rsvp withdrawn"})
}

// SetOrganizers handles replacing an event's organizer roster.
func (h *EventHandler) SetOrganizers(c *gin.Context) {
	h.setRoles(c, h.svc.SetOrganizers, "organizers")
}

// SetModerators handles replacing an event's moderator roster.
func (h *EventHandler) SetModerators(c *gin.Context) {
	h.setRoles(c, h.svc.SetModerators, "moderators")
}

func (h *EventHandler) setRoles(c *gin.Context, set func(ctx context.Context, id string, req *service.SetRolesRequest) error, what string) {
	eventID := c.Param("event_id")

	var req service.SetRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(c.Request.Context(), "invalid request", "error", err)
		badRequest(c, err)
		return
	}

	if err := set(c.Request.Context(), eventID, &req); err != nil {
		if failNotFound(c, err) {
			return
		}
		if errors.Is(err, service.ErrNotEventManager) {
			resp.Fail(c.Writer, resp.Forbidden(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "failed to set "+what, "id", eventID, "error", err)
		resp.Fail(c.Writer, resp.InternalServer("failed to set "+what))
		return
	}

	resp.Success(c.Writer, map[string]string{"message": what + " updated"})
}

// List handles browsing non-archived events with filters and cursor
// pagination.
func (h *EventHandler) List(c *gin.Context) {
	req, err := bindPageRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	filters := repository.EventFilters{
		City:      c.Query("city"),
		State:     c.Query("state"),
		Category:  c.Query("category"),
		Origin:    c.Query("origin"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	if v := c.Query("is_online"); v != "" {
		online := v == "true"
		filters.IsOnline = &online
	}

	page, err := h.svc.ListEvents(c.Request.Context(), filters, req)
	if err != nil {
		failPaging(c, h.logger, err, "events")
		return
	}
	resp.Success(c.Writer, page)
}

// ListNearby handles listing events near the caller's city and state.
func (h *EventHandler) ListNearby(c *gin.Context) {
	h.listCityState(c, h.svc.ListNearbyEvents, "nearby events")
}

// ListExternal handles listing externally-sourced events near the caller.
func (h *EventHandler) ListExternal(c *gin.Context) {
	h.listCityState(c, h.svc.ListExternalEvents, "external events")
}

func (h *EventHandler) listCityState(c *gin.Context, list func(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*repository.Event], error), what string) {
	req, err := bindPageRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	city, state := c.Query("city"), c.Query("state")
	if city == "" || state == "" {
		resp.Fail(c.Writer, resp.BadRequest("city and state are required"))
		return
	}

	page, err := list(c.Request.Context(), city, state, req)
	if err != nil {
		failPaging(c, h.logger, err, what)
		return
	}
	resp.Success(c.Writer, page)
}

// ListCreated handles listing the events a user created.
func (h *EventHandler) ListCreated(c *gin.Context) {
	h.listByEmail(c, h.svc.ListCreatedEvents, "created events")
}

// ListOrganized handles listing the events a user organizes.
func (h *EventHandler) ListOrganized(c *gin.Context) {
	h.listByEmail(c, h.svc.ListOrganizedEvents, "organized events")
}

// ListModerated handles listing the events a user moderates.
func (h *EventHandler) ListModerated(c *gin.Context) {
	h.listByEmail(c, h.svc.ListModeratedEvents, "moderated events")
}

// ListRSVPed handles listing the events a user has RSVPed to.
func (h *EventHandler) ListRSVPed(c *gin.Context) {
	h.listByEmail(c, h.svc.ListRSVPedEvents, "rsvped events")
}

// ListArchived handles listing a creator's archived events.
func (h *EventHandler) ListArchived(c *gin.Context) {
	h.listByEmail(c, h.svc.ListArchivedEvents, "archived events")
}

func (h *EventHandler) listByEmail(c *gin.Context, list func(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error), what string) {
	req, err := bindPageRequest(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	email := c.Query("email")
	if email == "" {
		resp.Fail(c.Writer, resp.BadRequest("email is required"))
		return
	}

	page, err := list(c.Request.Context(), email, req)
	if err != nil {
		failPaging(c, h.logger, err, what)
		return
	}
	resp.Success(c.Writer, page)
}
