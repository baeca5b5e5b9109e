package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catering/entities"
)

type ContractRepository interface {
	WithTx(tx *gorm.DB) ContractRepository
	Create(ctx context.Context, c *entities.Contract) error
	FindByID(ctx context.Context, id string) (*entities.Contract, error)
	ByProposal(ctx context.Context, proposalID string) (*entities.Contract, error)
	List(ctx context.Context, status string) ([]entities.Contract, error)
	UnsignedBefore(ctx context.Context, cutoff time.Time) ([]entities.Contract, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
}
