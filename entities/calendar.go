package entities

import "time"

const (
	EventShopping = "SHOPPING"
	EventPrep     = "PREP"
	EventDay      = "EVENT_DAY"
	EventTasting  = "TASTING"
)

type CalendarEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProposalID      string    `gorm:"index;size:36" json:"proposal_id"`
	Type            string    `json:"type"` // SHOPPING|PREP|EVENT_DAY|TASTING
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	Guests          int       `json:"guests"`
	StartTime       time.Time `json:"start_time" gorm:"index"`
	EndTime         time.Time `json:"end_time"`
	ProviderEventID string    `json:"provider_event_id"`
	CreatedAt       time.Time
}

// GoogleToken holds one OAuth token set; at most one row per Service is Active.
type GoogleToken struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Service      string    `gorm:"index" json:"service"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
	Active       bool      `gorm:"index" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}
