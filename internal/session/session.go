package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-reminder/backend/internal/client"
	"task-reminder/backend/internal/models"

	"github.com/gofrs/uuid"
)

// ErrValidation marks a commit with a missing form field. Nothing is sent
// to the store; the user corrects the form and retries.
var ErrValidation = errors.New("all fields are required")

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Store is the slice of the task store client the editor needs.
type Store interface {
	CreateTask(ctx context.Context, input client.TaskInput) (models.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input client.TaskInput) error
}

// Form mirrors the reminder input fields: title, date and time components
// of the scheduled instant, and priority.
type Form struct {
	Title    string
	Date     string
	Time     string
	Priority models.Priority
}

func emptyForm() Form {
	return Form{Priority: models.PriorityMedium}
}

// Editor mediates between form input and the task store. While a task is
// being edited, Commit updates it; otherwise Commit creates a new one.
// Every successful commit triggers refresh, which re-fetches the task list
// and drives a scheduler resync.
type Editor struct {
	store   Store
	owner   string
	refresh func(ctx context.Context) error

	editing *models.Task
	form    Form
}

func NewEditor(store Store, owner string, refresh func(ctx context.Context) error) *Editor {
	return &Editor{
		store:   store,
		owner:   owner,
		refresh: refresh,
		form:    emptyForm(),
	}
}

// BeginEdit loads the task and pre-fills the form by splitting its
// scheduled instant into date and time parts (in UTC, the canonical zone).
func (e *Editor) BeginEdit(ctx context.Context, id uuid.UUID) error {
	task, err := e.store.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load task for editing: %w", err)
	}

	at := task.ScheduledAt.UTC()
	e.editing = &task
	e.form = Form{
		Title:    task.Title,
		Date:     at.Format(dateLayout),
		Time:     at.Format(timeLayout),
		Priority: task.Priority,
	}
	return nil
}

// Editing reports the task currently being edited, nil in create mode.
func (e *Editor) Editing() *models.Task {
	return e.editing
}

// Form returns the current form contents.
func (e *Editor) Form() Form {
	return e.form
}

// Commit validates the form, composes the scheduled instant from its date
// and time parts, and issues an update when a task is being edited or a
// create otherwise. On success the editor returns to create mode and the
// refresh callback runs.
func (e *Editor) Commit(ctx context.Context, form Form) error {
	if form.Title == "" || form.Date == "" || form.Time == "" || form.Priority == "" {
		return ErrValidation
	}
	if !form.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, form.Priority)
	}

	scheduledAt, err := time.ParseInLocation(dateLayout+" "+timeLayout, form.Date+" "+form.Time, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: invalid date or time", ErrValidation)
	}

	input := client.TaskInput{
		Title:       form.Title,
		ScheduledAt: scheduledAt,
		Priority:    form.Priority,
	}

	if e.editing != nil {
		if err := e.store.UpdateTask(ctx, e.editing.ID, input); err != nil {
			return err
		}
	} else {
		input.Owner = e.owner
		if _, err := e.store.CreateTask(ctx, input); err != nil {
			return err
		}
	}

	e.editing = nil
	e.form = emptyForm()

	if e.refresh != nil {
		return e.refresh(ctx)
	}
	return nil
}

// Cancel drops the in-progress edit and resets the form. No network call.
func (e *Editor) Cancel() {
	e.editing = nil
	e.form = emptyForm()
}
