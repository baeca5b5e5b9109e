package repository

import (
	"context"
	"time"

	"catering/entities"
)

type ErrorLogRepository interface {
	Record(ctx context.Context, e *entities.ErrorLog) error
	List(ctx context.Context, limit int) ([]entities.ErrorLog, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
