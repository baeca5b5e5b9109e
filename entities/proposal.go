package entities

import "time"

const (
	ProposalDraft               = "DRAFT"
	ProposalPendingReview       = "PENDING_REVIEW"
	ProposalModifiedPendingSend = "MODIFIED_PENDING_SEND"
	ProposalApproved            = "APPROVED"
	ProposalDenied              = "DENIED"
	ProposalSent                = "SENT"
)

// Proposal rows are append-only: an edit inserts a new row with Version+1
// and PreviousID pointing at the row it replaces.
type Proposal struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	RequestID        string     `gorm:"index;size:36" json:"request_id"`
	PreviousID       string     `gorm:"size:36" json:"previous_id,omitempty"`
	Version          int        `json:"version"`
	Content          string     `json:"content"`
	EstimatedCost    float64    `json:"estimated_cost"`
	Status           string     `json:"status" gorm:"index"`
	Generator        string     `json:"generator"`
	SentAt           *time.Time `json:"sent_at"`
	ApprovedAt       *time.Time `json:"approved_at"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	DenialReason     string     `json:"denial_reason,omitempty"`
	TastingScheduled bool       `json:"tasting_scheduled"`
	FollowUpSent     bool       `json:"follow_up_sent"`
	ValidationScore  *float64   `json:"validation_score"`

	Request *CateringRequest `gorm:"foreignKey:RequestID" json:"request,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finalized reports whether the proposal has left the review stages.
func (p *Proposal) Finalized() bool {
	switch p.Status {
	case ProposalApproved, ProposalDenied, ProposalSent:
		return true
	}
	return false
}
