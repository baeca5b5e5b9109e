package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/calendar/repository"
)

type eventRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.EventRepository { return &eventRepo{db} }

func (r *eventRepo) Create(ctx context.Context, events []entities.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

// Between returns events starting in [from, to).
func (r *eventRepo) Between(ctx context.Context, from, to time.Time) ([]entities.CalendarEvent, error) {
	var out []entities.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepo) ExistsForRequest(ctx context.Context, requestID, kind string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.CalendarEvent{}).
		Joins("JOIN proposals ON proposals.id = calendar_events.proposal_id").
		Where("proposals.request_id = ? AND calendar_events.type = ?", requestID, kind).Count(&n).Error
	return n > 0, err
}
