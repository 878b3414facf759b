package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// OrDefault returns Medium for an empty priority.
func (p Priority) OrDefault() Priority {
	if p == "" {
		return PriorityMedium
	}
	return p
}

// Task is a user-owned reminder. ScheduledAt is always stored and served
// in UTC so every viewer sees the same instant regardless of local zone.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Owner       string    `json:"owner" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	ScheduledAt time.Time `json:"scheduled_at" gorm:"not null"`
	Priority    Priority  `json:"priority" gorm:"not null;default:'Medium'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
