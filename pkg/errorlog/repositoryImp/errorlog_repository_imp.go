package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/errorlog/repository"
)

const maxStack = 8000

type errorLogRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ErrorLogRepository { return &errorLogRepo{db} }

func (r *errorLogRepo) Record(ctx context.Context, e *entities.ErrorLog) error {
	if len(e.Stack) > maxStack {
		e.Stack = e.Stack[:maxStack]
	}
	// detached from the request so a cancelled client still leaves a record
	return r.db.WithContext(context.WithoutCancel(ctx)).Create(e).Error
}

func (r *errorLogRepo) List(ctx context.Context, limit int) ([]entities.ErrorLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var out []entities.ErrorLog
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *errorLogRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&entities.ErrorLog{})
	return res.RowsAffected, res.Error
}
