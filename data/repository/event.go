// Package repository provides MongoDB-backed persistence for events, friend
// requests and users, with every listing paginated through the shared cursor
// engine.
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

// ErrEventNotFound reports a missing event document.
var ErrEventNotFound = errors.New("event not found")

// Event origins.
const (
	OriginManual   = "manual"
	OriginExternal = "external"
)

// Location is the place an event happens at.
type Location struct {
	City  string `bson:"city" json:"city"`
	State string `bson:"state" json:"state"`
}

// Event represents an event document. StartTime is a nullable ISO-8601
// timestamp: undated events carry nil and sort before every dated one.
type Event struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Location       Location  `bson:"location" json:"location"`
	StartTime      *string   `bson:"start_time" json:"start_time"`
	DurationMins   int       `bson:"duration_mins,omitempty" json:"duration_mins,omitempty"`
	Categories     []string  `bson:"categories" json:"categories"`
	IsOnline       bool      `bson:"is_online" json:"is_online"`
	LinkToJoin     string    `bson:"link_to_join,omitempty" json:"link_to_join,omitempty"`
	Picture        string    `bson:"picture,omitempty" json:"picture,omitempty"`
	Origin         string    `bson:"origin" json:"origin"`
	CreatedByName  string    `bson:"created_by_name" json:"created_by_name"`
	CreatedByEmail string    `bson:"created_by_email" json:"created_by_email"`
	Organizers     []string  `bson:"organizers" json:"organizers"`
	Moderators     []string  `bson:"moderators" json:"moderators"`
	RSVPList       []string  `bson:"rsvp_list" json:"rsvp_list"`
	IsArchived     bool      `bson:"is_archived" json:"is_archived"`
	ArchivedAt     *string   `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
	ArchivedBy     string    `bson:"archived_by,omitempty" json:"archived_by,omitempty"`
	ArchiveReason  string    `bson:"archive_reason,omitempty" json:"archive_reason,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// PageKey positions the event in (startTime, eventID) listing order.
func (e *Event) PageKey() paging.Key {
	return paging.Key{SortKey: e.StartTime, TieBreakID: e.ID}
}

// EventFilters narrows event listings. Zero values mean "no filter".
type EventFilters struct {
	City         string
	State        string
	Category     string
	IsOnline     *bool
	CreatorEmail string
	Origin       string
	StartDate    string
	EndDate      string
}

func (f EventFilters) predicates() []paging.Predicate {
	var preds []paging.Predicate
	if f.City != "" {
		preds = append(preds, paging.Equals("location.city", f.City))
	}
	if f.State != "" {
		preds = append(preds, paging.Equals("location.state", f.State))
	}
	if f.Category != "" {
		preds = append(preds, paging.ArrayContains("categories", f.Category))
	}
	if f.IsOnline != nil {
		preds = append(preds, paging.Equals("is_online", *f.IsOnline))
	}
	if f.CreatorEmail != "" {
		preds = append(preds, paging.Equals("created_by_email", f.CreatorEmail))
	}
	if f.Origin != "" {
		preds = append(preds, paging.Equals("origin", f.Origin))
	}
	if f.StartDate != "" {
		preds = append(preds, paging.GTE("start_time", f.StartDate))
	}
	if f.EndDate != "" {
		preds = append(preds, paging.LTE("start_time", f.EndDate))
	}
	return preds
}

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) (*Event, error)
	Delete(ctx context.Context, id string) error

	SetArchived(ctx context.Context, id string, archivedBy, reason string) error
	SetUnarchived(ctx context.Context, id string) error
	AddRSVP(ctx context.Context, id, email string) error
	RemoveRSVP(ctx context.Context, id, email string) error
	SetOrganizers(ctx context.Context, id string, emails []string) error
	SetModerators(ctx context.Context, id string, emails []string) error

	List(ctx context.Context, filters EventFilters, req paging.Request) (*paging.Page[*Event], error)
	ListNearby(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*Event], error)
	ListExternal(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*Event], error)
	ListByCreator(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error)
	ListOrganized(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error)
	ListModerated(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error)
	ListRSVPed(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error)
	ListArchived(ctx context.Context, creatorEmail string, req paging.Request) (*paging.Page[*Event], error)
}

type eventRepository struct {
	collection *mongo.Collection
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewEventRepository creates a new event repository instance.
func NewEventRepository(db *mongo.Database, log *logger.Logger) EventRepository {
	collection := db.Collection("events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_archived", Value: 1}, {Key: "start_time", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "is_archived", Value: 1}, {Key: "location.city", Value: 1}, {Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "is_archived", Value: 1}, {Key: "created_by_email", Value: 1}, {Key: "start_time", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn(ctx, "failed to create event indexes", "error", err)
	}

	return &eventRepository{
		collection: collection,
		breaker:    newScanBreaker("events"),
		logger:     log,
	}
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *Event) (*Event, error) {
	if event.ID == "" {
		event.ID = nanoid.PrimaryKey()()
	}
	if event.Origin == "" {
		event.Origin = OriginManual
	}
	if event.Organizers == nil {
		event.Organizers = []string{}
	}
	if event.Moderators == nil {
		event.Moderators = []string{}
	}
	if event.RSVPList == nil {
		event.RSVPList = []string{}
	}
	if event.Categories == nil {
		event.Categories = []string{}
	}
	event.IsArchived = false
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		r.logger.Error(ctx, "failed to create event", "error", err)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Info(ctx, "event created", "id", event.ID)
	return event, nil
}

// FindByID retrieves an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	var event Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		r.logger.Error(ctx, "failed to find event", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

// Update replaces the mutable fields of an existing event.
func (r *eventRepository) Update(ctx context.Context, event *Event) (*Event, error) {
	event.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":          event.Name,
			"description":   event.Description,
			"location":      event.Location,
			"start_time":    event.StartTime,
			"duration_mins": event.DurationMins,
			"categories":    event.Categories,
			"is_online":     event.IsOnline,
			"link_to_join":  event.LinkToJoin,
			"picture":       event.Picture,
			"updated_at":    event.UpdatedAt,
		},
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": event.ID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		r.logger.Error(ctx, "failed to update event", "id", event.ID, "error", result.Err())
		return nil, fmt.Errorf("failed to update event: %w", result.Err())
	}

	var updated Event
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated event: %w", err)
	}
	return &updated, nil
}

// Delete deletes an event by ID.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error(ctx, "failed to delete event", "id", id, "error", err)
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrEventNotFound
	}
	r.logger.Info(ctx, "event deleted", "id", id)
	return nil
}

// SetArchived marks an event archived with audit metadata.
func (r *eventRepository) SetArchived(ctx context.Context, id, archivedBy, reason string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"is_archived":    true,
		"archived_at":    now,
		"archived_by":    archivedBy,
		"archive_reason": reason,
		"updated_at":     time.Now().UTC(),
	}})
}

// SetUnarchived restores an archived event.
func (r *eventRepository) SetUnarchived(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set":   bson.M{"is_archived": false, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"archived_at": "", "archived_by": "", "archive_reason": ""},
	})
}

// AddRSVP adds an attendee to the RSVP list.
func (r *eventRepository) AddRSVP(ctx context.Context, id, email string) error {
	return r.updateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"rsvp_list": email},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

// RemoveRSVP removes an attendee from the RSVP list.
func (r *eventRepository) RemoveRSVP(ctx context.Context, id, email string) error {
	return r.updateByID(ctx, id, bson.M{
		"$pull": bson.M{"rsvp_list": email},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

// SetOrganizers replaces the organizer list.
func (r *eventRepository) SetOrganizers(ctx context.Context, id string, emails []string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"organizers": emails,
		"updated_at": time.Now().UTC(),
	}})
}

// SetModerators replaces the moderator list.
func (r *eventRepository) SetModerators(ctx context.Context, id string, emails []string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"moderators": emails,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *eventRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error(ctx, "failed to update event", "id", id, "error", err)
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrEventNotFound
	}
	return nil
}

// List returns one page of non-archived events matching the filters, ordered
// by (startTime, eventID).
func (r *eventRepository) List(ctx context.Context, filters EventFilters, req paging.Request) (*paging.Page[*Event], error) {
	preds := append([]paging.Predicate{paging.Equals("is_archived", false)}, filters.predicates()...)
	return r.paginate(ctx, preds, req)
}

// ListNearby returns one page of events in a city, optionally narrowed by
// state.
func (r *eventRepository) ListNearby(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*Event], error) {
	preds := []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.Equals("location.city", city),
	}
	if state != "" {
		preds = append(preds, paging.Equals("location.state", state))
	}
	return r.paginate(ctx, preds, req)
}

// ListExternal returns one page of externally ingested events in a location.
func (r *eventRepository) ListExternal(ctx context.Context, city, state string, req paging.Request) (*paging.Page[*Event], error) {
	preds := []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.Equals("origin", OriginExternal),
		paging.Equals("location.city", city),
	}
	if state != "" {
		preds = append(preds, paging.Equals("location.state", state))
	}
	return r.paginate(ctx, preds, req)
}

// ListByCreator returns one page of events created by a user.
func (r *eventRepository) ListByCreator(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error) {
	return r.paginate(ctx, []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.Equals("created_by_email", email),
	}, req)
}

// ListOrganized returns one page of events a user organizes.
func (r *eventRepository) ListOrganized(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error) {
	return r.paginate(ctx, []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.ArrayContains("organizers", email),
	}, req)
}

// ListModerated returns one page of events a user moderates.
func (r *eventRepository) ListModerated(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error) {
	return r.paginate(ctx, []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.ArrayContains("moderators", email),
	}, req)
}

// ListRSVPed returns one page of events a user has RSVP'd to.
func (r *eventRepository) ListRSVPed(ctx context.Context, email string, req paging.Request) (*paging.Page[*Event], error) {
	return r.paginate(ctx, []paging.Predicate{
		paging.Equals("is_archived", false),
		paging.ArrayContains("rsvp_list", email),
	}, req)
}

// ListArchived returns one page of archived events, optionally narrowed to a
// creator.
func (r *eventRepository) ListArchived(ctx context.Context, creatorEmail string, req paging.Request) (*paging.Page[*Event], error) {
	preds := []paging.Predicate{paging.Equals("is_archived", true)}
	if creatorEmail != "" {
		preds = append(preds, paging.Equals("created_by_email", creatorEmail))
	}
	return r.paginate(ctx, preds, req)
}

func (r *eventRepository) paginate(ctx context.Context, preds []paging.Predicate, req paging.Request) (*paging.Page[*Event], error) {
	src := &pageSource[*Event]{
		coll:      r.collection,
		filters:   preds,
		sortField: "start_time",
		breaker:   r.breaker,
	}
	return paging.Paginate[*Event](ctx, src, req)
}
