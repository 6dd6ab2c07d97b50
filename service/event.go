package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/data/cache"
	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"
	"github.com/gatherly/gatherly/paging"
)

// ErrNotEventManager reports an archive, RSVP-roster or role change attempted
// by someone who is neither the creator nor an organizer.
var ErrNotEventManager = errors.New("not an organizer or creator of this event")

// EventService handles event-related business logic.
type EventService struct {
	data   *data.Data
	cache  *cache.Cache[repository.Event]
	logger *logger.Logger
}

// NewEventService creates a new event service.
func NewEventService(d *data.Data, logger *logger.Logger) *EventService {
	return &EventService{
		data:   d,
		cache:  cache.NewCache[repository.Event](d.Redis(), "events"),
		logger: logger,
	}
}

// CreateEventRequest represents the request to create an event.
type CreateEventRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=5000"`
	City         string   `json:"city" binding:"required"`
	State        string   `json:"state" binding:"required"`
	StartTime    *string  `json:"start_time" binding:"omitempty"`
	DurationMins int      `json:"duration_mins" binding:"omitempty,min=1"`
	Categories   []string `json:"categories" binding:"omitempty,dive,min=1"`
	IsOnline     bool     `json:"is_online"`
	LinkToJoin   string   `json:"link_to_join" binding:"omitempty,url"`
	Picture      string   `json:"picture" binding:"omitempty,url"`
	CreatorName  string   `json:"creator_name" binding:"required"`
	CreatorEmail string   `json:"creator_email" binding:"required,email"`
}

// UpdateEventRequest represents the request to update an event.
type UpdateEventRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=200"`
	Description  string   `json:"description" binding:"omitempty,max=5000"`
	City         string   `json:"city" binding:"required"`
	State        string   `json:"state" binding:"required"`
	StartTime    *string  `json:"start_time" binding:"omitempty"`
	DurationMins int      `json:"duration_mins" binding:"omitempty,min=1"`
	Categories   []string `json:"categories" binding:"omitempty,dive,min=1"`
	IsOnline     bool     `json:"is_online"`
	LinkToJoin   string   `json:"link_to_join" binding:"omitempty,url"`
	Picture      string   `json:"picture" binding:"omitempty,url"`
}

// ArchiveEventRequest represents the request to archive an event.
type ArchiveEventRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// SetRolesRequest represents the request to replace an event's organizer or
// moderator roster.
type SetRolesRequest struct {
	Email  string   `json:"email" binding:"required,email"`
	Emails []string `json:"emails" binding:"required,dive,email"`
}

// CreateEvent creates a manually-entered event.
func (s *EventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*repository.Event, error) {
	if req.StartTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
	}

	event := &repository.Event{
		Name:           req.Name,
		Description:    req.Description,
		Location:       repository.Location{City: req.City, State: req.State},
		StartTime:      req.StartTime,
		DurationMins:   req.DurationMins,
		Categories:     req.Categories,
		IsOnline:       req.IsOnline,
		LinkToJoin:     req.LinkToJoin,
		Picture:        req.Picture,
		Origin:         repository.OriginManual,
		CreatedByName:  req.CreatorName,
		CreatedByEmail: req.CreatorEmail,
		Organizers:     []string{req.CreatorEmail},
	}

	return s.data.EventRepo.Create(ctx, event)
}

// GetEvent retrieves an event by ID, serving from cache when possible.
func (s *EventService) GetEvent(ctx context.Context, id string) (*repository.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event ID is required")
	}

	if cached, err := s.cache.Get(ctx, id); err == nil {
		return cached, nil
	}

	event, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, id, event); err != nil {
		s.logger.Warn(ctx, "failed to cache event", "id", id, "error", err)
	}
	return event, nil
}

// UpdateEvent updates an existing event's editable fields.
func (s *EventService) UpdateEvent(ctx context.Context, id, email string, req *UpdateEventRequest) (*repository.Event, error) {
	if req.StartTime != nil {
		if _, err := time.Parse(time.RFC3339, *req.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
	}

	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(existing, email) {
		return nil, ErrNotEventManager
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Location = repository.Location{City: req.City, State: req.State}
	existing.StartTime = req.StartTime
	existing.DurationMins = req.DurationMins
	existing.Categories = req.Categories
	existing.IsOnline = req.IsOnline
	existing.LinkToJoin = req.LinkToJoin
	existing.Picture = req.Picture

	updated, err := s.data.EventRepo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// DeleteEvent removes an event permanently.
func (s *EventService) DeleteEvent(ctx context.Context, id, email string) error {
	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(existing, email) {
		return ErrNotEventManager
	}
	if err := s.data.EventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ArchiveEvent hides an event from regular listings, recording who archived
// it and why.
func (s *EventService) ArchiveEvent(ctx context.Context, id string, req *ArchiveEventRequest) error {
	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(existing, req.Email) {
		return ErrNotEventManager
	}
	if err := s.data.EventRepo.SetArchived(ctx, id, req.Email, req.Reason); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// UnarchiveEvent restores an archived event to regular listings.
func (s *EventService) UnarchiveEvent(ctx context.Context, id, email string) error {
	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(existing, email) {
		return ErrNotEventManager
	}
	if err := s.data.EventRepo.SetUnarchived(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// RSVP adds the user to the event's attendee list.
func (s *EventService) RSVP(ctx context.Context, id, email string) error {
	if _, err := s.data.EventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.data.EventRepo.AddRSVP(ctx, id, email); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// CancelRSVP removes the user from the event's attendee list.
func (s *EventService) CancelRSVP(ctx context.Context, id, email string) error {
	if _, err := s.data.EventRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.data.EventRepo.RemoveRSVP(ctx, id, email); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// SetOrganizers replaces the event's organizer roster. The creator always
// stays an organizer.
func (s *EventService) SetOrganizers(ctx context.Context, id string, req *SetRolesRequest) error {
	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(existing, req.Email) {
		return ErrNotEventManager
	}

	emails := req.Emails
	if !contains(emails, existing.CreatedByEmail) {
		emails = append([]string{existing.CreatedByEmail}, emails...)
	}
	if err := s.data.EventRepo.SetOrganizers(ctx, id, emails); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// SetModerators replaces the event's moderator roster.
func (s *EventService) SetModerators(ctx context.Context, id string, req *SetRolesRequest) error {
	existing, err := s.data.EventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(existing, req.Email) {
		return ErrNotEventManager
	}
	if err := s.data.EventRepo.SetModerators(ctx, id, req.Emails); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ListEvents retrieves one page of non-archived events matching the filters.
func (s *EventService) ListEvents(ctx context.Context, filters repository.EventFilters, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.List(ctx, filters, req)
}

// ListNearbyEvents retrieves one page of events in the user's city and state.
func (s *EventService) ListNearbyEvents(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*repository.Event], error) {
	if city == "" || state == "" {
		return nil, fmt.Errorf("city and state are required")
	}
	return s.data.EventRepo.ListNearby(ctx, city, state, req)
}

// ListExternalEvents retrieves one page of externally-sourced events near the
// user.
func (s *EventService) ListExternalEvents(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*repository.Event], error) {
	if city == "" || state == "" {
		return nil, fmt.Errorf("city and state are required")
	}
	return s.data.EventRepo.ListExternal(ctx, city, state, req)
}

// ListCreatedEvents retrieves one page of events a user created.
func (s *EventService) ListCreatedEvents(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.ListByCreator(ctx, email, req)
}

// ListOrganizedEvents retrieves one page of events a user organizes.
func (s *EventService) ListOrganizedEvents(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.ListOrganized(ctx, email, req)
}

// ListModeratedEvents retrieves one page of events a user moderates.
func (s *EventService) ListModeratedEvents(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.ListModerated(ctx, email, req)
}

// ListRSVPedEvents retrieves one page of events a user has RSVPed to.
func (s *EventService) ListRSVPedEvents(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.ListRSVPed(ctx, email, req)
}

// ListArchivedEvents retrieves one page of a creator's archived events.
func (s *EventService) ListArchivedEvents(ctx context.Context, email string, req paging.Request) (*paging.Page[*repository.Event], error) {
	return s.data.EventRepo.ListArchived(ctx, email, req)
}

func (s *EventService) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn(ctx, "failed to invalidate event cache", "id", id, "error", err)
	}
}

// canManage reports whether the email belongs to the creator or an organizer.
func canManage(event *repository.Event, email string) bool {
	if email == event.CreatedByEmail {
		return true
	}
	return contains(event.Organizers, email)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
