package repository

import (
	"context"
	"time"

	"catering/entities"
)

type EventRepository interface {
	Create(ctx context.Context, events []entities.CalendarEvent) error
	Between(ctx context.Context, from, to time.Time) ([]entities.CalendarEvent, error)
	// ExistsForRequest reports whether any version of the request already has an event of kind.
	ExistsForRequest(ctx context.Context, requestID, kind string) (bool, error)
}
