package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/task/repository"
)

type taskRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TaskRepository { return &taskRepo{db} }

func (r *taskRepo) WithTx(tx *gorm.DB) repository.TaskRepository { return &taskRepo{tx} }

func (r *taskRepo) BulkInsert(ctx context.Context, ts []entities.Task) error {
	if len(ts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ts).Error
}

func (r *taskRepo) ListByProposal(ctx context.Context, proposalID string) ([]entities.Task, error) {
	var out []entities.Task
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).Order("due_date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List filters by status and an optional YYYY-MM-DD due-date window.
func (r *taskRepo) List(ctx context.Context, status, from, to string) ([]entities.Task, error) {
	var out []entities.Task
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if s, err := time.Parse("2006-01-02", from); err == nil {
		q = q.Where("due_date >= ?", s)
	}
	if e, err := time.Parse("2006-01-02", to); err == nil {
		q = q.Where("due_date < ?", e.AddDate(0, 0, 1))
	}
	if err := q.Order("due_date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *taskRepo) PatchStatus(ctx context.Context, taskID uint, status string) error {
	res := r.db.WithContext(ctx).Model(&entities.Task{}).Where("task_id = ?", taskID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
