package repositoryImp

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catering/entities"
	"catering/pkg/catering/repository"
)

type cateringRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CateringRepository { return &cateringRepo{db} }

func (r *cateringRepo) WithTx(tx *gorm.DB) repository.CateringRepository { return &cateringRepo{tx} }

func (r *cateringRepo) Create(ctx context.Context, req *entities.CateringRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error
}

func versionsAsc(db *gorm.DB) *gorm.DB { return db.Order("version ASC") }

func (r *cateringRepo) FindByID(ctx context.Context, id string) (*entities.CateringRequest, error) {
	var out entities.CateringRequest
	err := r.db.WithContext(ctx).Preload("Proposals", versionsAsc).Preload("Menu").First(&out, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *cateringRepo) List(ctx context.Context, status string) ([]entities.CateringRequest, error) {
	q := r.db.WithContext(ctx).Preload("Proposals", versionsAsc).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []entities.CateringRequest
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cateringRepo) update(ctx context.Context, id string, col string, v any) error {
	res := r.db.WithContext(ctx).Model(&entities.CateringRequest{}).Where("id = ?", id).Update(col, v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cateringRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.update(ctx, id, "status", status)
}

func (r *cateringRepo) UpdateGuestCount(ctx context.Context, id string, guests int) error {
	return r.update(ctx, id, "guest_count", guests)
}

// UpsertMenu keeps one menu per request.
func (r *cateringRepo) UpsertMenu(ctx context.Context, m *entities.Menu) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "generator", "updated_at"}),
	}).Create(m).Error
}

// CountGuestRange counts proposals on other requests whose guest count is within [min, max].
func (r *cateringRepo) CountGuestRange(ctx context.Context, excludeID string, min, max int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Proposal{}).
		Joins("JOIN catering_requests ON catering_requests.id = proposals.request_id").
		Where("catering_requests.id <> ? AND catering_requests.guest_count BETWEEN ? AND ?", excludeID, min, max).
		Count(&n).Error
	return n, err
}
