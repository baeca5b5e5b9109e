package service

import (
	"context"
	"io"

	"catering/entities"
)

type Change struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

type ModifyInput struct {
	AdminID string   `json:"-"`
	Changes []Change `json:"changes"`
	Rate    float64  `json:"rate"`
	Reason  string   `json:"reason"`
}

type VersionInput struct {
	Content       *string  `json:"content"`
	EstimatedCost *float64 `json:"estimatedCost"`
	GuestCount    *int     `json:"guestCount"`
	Reason        string   `json:"reason"`
	ChangedBy     string   `json:"changedBy"`
}

type ApproveResult struct {
	Proposal  *entities.Proposal `json:"proposal"`
	Contract  *entities.Contract `json:"contract"`
	Tasks     []entities.Task    `json:"tasks"`
	EmailSent bool               `json:"emailSent"`
}

type ProposalService interface {
	Get(ctx context.Context, id string) (*entities.Proposal, error)
	List(ctx context.Context, status string) ([]entities.Proposal, error)
	ListVersions(ctx context.Context, requestID string) ([]entities.Proposal, error)
	History(ctx context.Context, id string) ([]entities.ChangeLog, error)
	Create(ctx context.Context, requestID, adminID string) (*entities.Proposal, error)
	CreateVersion(ctx context.Context, id string, in VersionInput) (*entities.Proposal, error)
	Resend(ctx context.Context, id string) (*entities.Proposal, error)
	Approve(ctx context.Context, id, adminID string) (*ApproveResult, error)
	Deny(ctx context.Context, id, adminID, reason string) (*entities.Proposal, error)
	Modify(ctx context.Context, id string, in ModifyInput) (*entities.Proposal, error)
	SetPrice(ctx context.Context, id, adminID string, rate float64) (*entities.Proposal, error)
	Export(ctx context.Context, w io.Writer) error
}
