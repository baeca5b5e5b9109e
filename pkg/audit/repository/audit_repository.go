package repository

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
)

type AuditRepository interface {
	WithTx(tx *gorm.DB) AuditRepository
	AddChanges(ctx context.Context, changes []entities.ChangeLog) error
	AddAdmin(ctx context.Context, l *entities.AdminLog) error
	ChangesFor(ctx context.Context, proposalID string) ([]entities.ChangeLog, error)
	ListAdmin(ctx context.Context, entityID string, limit int) ([]entities.AdminLog, error)
}
