package repositoryImp

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catering/entities"
	"catering/pkg/proposal/repository"
)

type proposalRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ProposalRepository { return &proposalRepo{db} }

func (r *proposalRepo) WithTx(tx *gorm.DB) repository.ProposalRepository { return &proposalRepo{tx} }

func (r *proposalRepo) Create(ctx context.Context, p *entities.Proposal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *proposalRepo) FindByID(ctx context.Context, id string) (*entities.Proposal, error) {
	var p entities.Proposal
	if err := r.db.WithContext(ctx).Preload("Request").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepo) Latest(ctx context.Context, requestID string) (*entities.Proposal, error) {
	var p entities.Proposal
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Order("version DESC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepo) ListVersions(ctx context.Context, requestID string) ([]entities.Proposal, error) {
	var ps []entities.Proposal
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Order("version ASC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *proposalRepo) List(ctx context.Context, status string) ([]entities.Proposal, error) {
	q := r.db.WithContext(ctx).Preload("Request").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var ps []entities.Proposal
	if err := q.Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// ListLatest returns the highest version of every request's proposal.
func (r *proposalRepo) ListLatest(ctx context.Context) ([]entities.Proposal, error) {
	latest := r.db.Model(&entities.Proposal{}).Select("request_id, MAX(version) AS version").Group("request_id")
	var ps []entities.Proposal
	err := r.db.WithContext(ctx).Select("proposals.*").Preload("Request").
		Joins("JOIN (?) AS latest ON latest.request_id = proposals.request_id AND latest.version = proposals.version", latest).
		Order("proposals.created_at DESC").Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *proposalRepo) CountApproved(ctx context.Context, requestID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Proposal{}).
		Where("request_id = ? AND (status = ? OR approved_at IS NOT NULL)", requestID, entities.ProposalApproved).
		Count(&n).Error
	return n, err
}

func (r *proposalRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entities.Proposal{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *proposalRepo) UpdateIf(ctx context.Context, id string, statuses []string, fields map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.Proposal{}).
		Where("id = ? AND status IN ?", id, statuses).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
