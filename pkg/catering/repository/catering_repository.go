package repository

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
)

type CateringRepository interface {
	WithTx(tx *gorm.DB) CateringRepository
	Create(ctx context.Context, r *entities.CateringRequest) error
	FindByID(ctx context.Context, id string) (*entities.CateringRequest, error)
	List(ctx context.Context, status string) ([]entities.CateringRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateGuestCount(ctx context.Context, id string, guests int) error
	UpsertMenu(ctx context.Context, m *entities.Menu) error
	CountGuestRange(ctx context.Context, excludeID string, min, max int) (int64, error)
}
