package entities

import "time"

const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"

	TaskPending = "PENDING"
	TaskDone    = "DONE"
)

type Task struct {
	TaskID      uint      `gorm:"primaryKey" json:"task_id"`
	ProposalID  string    `gorm:"index;size:36" json:"proposal_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority"` // HIGH|MEDIUM|LOW
	Status      string    `json:"status"`   // PENDING|DONE
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
