package entities

import "time"

const (
	ContractDraft     = "DRAFT"
	ContractSent      = "SENT"
	ContractSigned    = "SIGNED"
	ContractCancelled = "CANCELLED"
)

type Contract struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ProposalID     string     `gorm:"uniqueIndex;size:36" json:"proposal_id"`
	ContractNumber string     `gorm:"uniqueIndex" json:"contract_number"`
	Content        string     `json:"content"`
	TotalAmount    float64    `json:"total_amount"`
	DepositAmount  float64    `json:"deposit_amount"`
	Status         string     `json:"status" gorm:"index"`
	SentAt         *time.Time `json:"sent_at"`
	SignedAt       *time.Time `json:"signed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
