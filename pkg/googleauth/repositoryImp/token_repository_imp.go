package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
	"catering/pkg/googleauth/repository"
)

type tokenRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.TokenRepository { return &tokenRepo{db} }

func (r *tokenRepo) Activate(ctx context.Context, t *entities.GoogleToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.GoogleToken{}).
			Where("service = ? AND active = ?", t.Service, true).
			Update("active", false).Error
		if err != nil {
			return err
		}
		t.ID = 0
		t.Active = true
		return tx.Create(t).Error
	})
}

func (r *tokenRepo) Active(ctx context.Context, service string) (*entities.GoogleToken, error) {
	var t entities.GoogleToken
	err := r.db.WithContext(ctx).
		Where("service = ? AND active = ?", service, true).
		Order("id DESC").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}
