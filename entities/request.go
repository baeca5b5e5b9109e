package entities

import "time"

const (
	RequestPending           = "PENDING"
	RequestProposalSent      = "PROPOSAL_SENT"
	RequestApproved          = "APPROVED"
	RequestCallbackScheduled = "CALLBACK_SCHEDULED"
	RequestCallbackCompleted = "CALLBACK_COMPLETED"
	RequestCallbackFailed    = "CALLBACK_FAILED"
	RequestGenerated         = "GENERATED"
)

type CateringRequest struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email" gorm:"index"`
	Phone           string     `json:"phone"`
	Company         string     `json:"company"`
	EventDate       *time.Time `json:"event_date"`
	EventLocation   string     `json:"event_location"`
	EventType       string     `json:"event_type"` // wedding|corporate|birthday|...
	GuestCount      int        `json:"guest_count"`
	Proteins        []string   `gorm:"serializer:json" json:"proteins"`
	Preparation     string     `json:"preparation"` // bbq|smoked|grilled|herb-roasted|...
	Sides           []string   `gorm:"serializer:json" json:"sides"`
	Bread           string     `json:"bread"`
	Allergies       string     `json:"allergies"`
	SpecialRequests string     `json:"special_requests"`
	Status          string     `json:"status" gorm:"index"`

	Proposals []Proposal `gorm:"foreignKey:RequestID" json:"proposals,omitempty"`
	Menu      *Menu      `gorm:"foreignKey:RequestID" json:"menu,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Menu is the document produced by the admin "generate menu" flow.
type Menu struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID string `gorm:"uniqueIndex;size:36" json:"request_id"`
	Content   string `json:"content"`
	Generator string `json:"generator"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
