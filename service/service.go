// Package service contains the business logic for events, friends and user
// discovery.
package service

import (
	"github.com/gatherly/gatherly/data"
	"github.com/gatherly/gatherly/logging/logger"
)

// Service aggregates all business logic services.
type Service struct {
	Event  *EventService
	Friend *FriendService
	User   *UserService
}

// NewService creates a new service instance with all sub-services initialized.
func NewService(d *data.Data, logger *logger.Logger) *Service {
	return &Service{
		Event:  NewEventService(d, logger),
		Friend: NewFriendService(d, logger),
		User:   NewUserService(d, logger),
	}
}
