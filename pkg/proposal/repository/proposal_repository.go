package repository

import (
	"context"

	"gorm.io/gorm"

	"catering/entities"
)

type ProposalRepository interface {
	WithTx(tx *gorm.DB) ProposalRepository
	Create(ctx context.Context, p *entities.Proposal) error
	FindByID(ctx context.Context, id string) (*entities.Proposal, error)
	Latest(ctx context.Context, requestID string) (*entities.Proposal, error)
	ListVersions(ctx context.Context, requestID string) ([]entities.Proposal, error)
	List(ctx context.Context, status string) ([]entities.Proposal, error)
	ListLatest(ctx context.Context) ([]entities.Proposal, error)
	// CountApproved counts versions of the request that have been approved.
	CountApproved(ctx context.Context, requestID string) (int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	// UpdateIf applies fields only while the row is in one of statuses.
	UpdateIf(ctx context.Context, id string, statuses []string, fields map[string]any) (bool, error)
}
