package entities

import (
	"time"

	"gorm.io/datatypes"
)

type ChangeLog struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProposalID string `gorm:"index;size:36" json:"proposal_id"`
	Field      string `json:"field"`
	OldValue   string `json:"old_value"`
	NewValue   string `json:"new_value"`
	Reason     string `json:"reason"`
	ChangedBy  string `json:"changed_by"`
	CreatedAt  time.Time
}

type AdminLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Action     string            `gorm:"index" json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `gorm:"index" json:"entity_id"`
	ActorID    string            `json:"actor_id"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `json:"message"`
	Stack     string    `json:"stack,omitempty"`
	Source    string    `json:"source"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
