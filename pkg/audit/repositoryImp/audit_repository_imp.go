package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/audit/repository"
)

type auditRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.AuditRepository { return &auditRepo{db} }

func (r *auditRepo) WithTx(tx *gorm.DB) repository.AuditRepository { return &auditRepo{tx} }

func (r *auditRepo) AddChanges(ctx context.Context, changes []entities.ChangeLog) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&changes).Error
}

func (r *auditRepo) AddAdmin(ctx context.Context, l *entities.AdminLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// ChangesFor returns the change history of a proposal and all its earlier versions.
func (r *auditRepo) ChangesFor(ctx context.Context, proposalID string) ([]entities.ChangeLog, error) {
	var out []entities.ChangeLog
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auditRepo) ListAdmin(ctx context.Context, entityID string, limit int) ([]entities.AdminLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if entityID != "" {
		q = q.Where("entity_id = ?", entityID)
	}
	var out []entities.AdminLog
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
