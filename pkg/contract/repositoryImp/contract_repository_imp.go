package repositoryImp

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/contract/repository"
)

type contractRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ContractRepository { return &contractRepo{db} }

func (r *contractRepo) WithTx(tx *gorm.DB) repository.ContractRepository { return &contractRepo{tx} }

func (r *contractRepo) Create(ctx context.Context, c *entities.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contractRepo) FindByID(ctx context.Context, id string) (*entities.Contract, error) {
	var c entities.Contract
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepo) ByProposal(ctx context.Context, proposalID string) (*entities.Contract, error) {
	var c entities.Contract
	if err := r.db.WithContext(ctx).Where("proposal_id = ?", proposalID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepo) List(ctx context.Context, status string) ([]entities.Contract, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []entities.Contract
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UnsignedBefore lists draft or sent contracts created before cutoff.
func (r *contractRepo) UnsignedBefore(ctx context.Context, cutoff time.Time) ([]entities.Contract, error) {
	var out []entities.Contract
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", []string{entities.ContractDraft, entities.ContractSent}, cutoff).
		Order("created_at ASC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	upd := map[string]any{"status": status}
	switch status {
	case entities.ContractSent:
		upd["sent_at"] = at
	case entities.ContractSigned:
		upd["signed_at"] = at
	}
	res := r.db.WithContext(ctx).Model(&entities.Contract{}).Where("id = ?", id).Updates(upd)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
