package models

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
)

func TestPriorityValid(t *testing.T) {
	valid := []Priority{PriorityLow, PriorityMedium, PriorityHigh}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("Expected priority %q to be valid", p)
		}
	}

	invalid := []Priority{"", "urgent", "low", "MEDIUM"}
	for _, p := range invalid {
		if p.Valid() {
			t.Errorf("Expected priority %q to be invalid", p)
		}
	}
}

func TestPriorityOrDefault(t *testing.T) {
	if got := Priority("").OrDefault(); got != PriorityMedium {
		t.Errorf("Expected empty priority to default to Medium, got %q", got)
	}

	if got := PriorityHigh.OrDefault(); got != PriorityHigh {
		t.Errorf("Expected High to stay High, got %q", got)
	}
}

func TestTaskFields(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	at := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	task := Task{
		ID:          id,
		Owner:       "user@example.com",
		Title:       "Pay bills",
		ScheduledAt: at,
		Priority:    PriorityHigh,
	}

	if task.ID != id {
		t.Errorf("Expected task ID %s, got %s", id, task.ID)
	}

	if task.Owner != "user@example.com" {
		t.Errorf("Expected owner user@example.com, got %s", task.Owner)
	}

	if !task.ScheduledAt.Equal(at) {
		t.Errorf("Expected scheduled at %v, got %v", at, task.ScheduledAt)
	}
}
