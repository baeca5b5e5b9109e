package repository

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
)

type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	BulkInsert(ctx context.Context, ts []entities.Task) error
	ListByProposal(ctx context.Context, proposalID string) ([]entities.Task, error)
	List(ctx context.Context, status, from, to string) ([]entities.Task, error)
	PatchStatus(ctx context.Context, taskID uint, status string) error
}
