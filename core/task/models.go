package task

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
)

// Task statuses
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

var AllStatuses = []string{StatusOpen, StatusInProgress, StatusDone}

type Task struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Details    string      `json:"details"`
	Status     string      `json:"status"`
	ClientID   null.String `json:"client_id"`
	AssignedTo null.String `json:"assigned_to"` // employee ID
	DueDate    null.Time   `json:"due_date"`
	CreatedAt  time.Time   `json:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at"` // UTC
}

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title      string      `json:"title" validate:"required"`
	Details    string      `json:"details"`
	Status     string      `json:"status" validate:"omitempty,taskstatus"`
	ClientID   null.String `json:"client_id"`
	AssignedTo null.String `json:"assigned_to"`
	DueDate    null.Time   `json:"due_date"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Details = core.CleanString(nt.Details)
	if nt.Status == "" {
		nt.Status = StatusOpen
	}
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify an existing Task.
type UpdateTask struct {
	Title      string       `json:"title"`
	Details    *string      `json:"details"`
	Status     string       `json:"status" validate:"omitempty,taskstatus"`
	ClientID   *null.String `json:"client_id"`
	AssignedTo *null.String `json:"assigned_to"`
	DueDate    *null.Time   `json:"due_date"`
}

func (ut *UpdateTask) Validate(validate *validator.Validate, orig Task) error {
	title := core.CleanString(ut.Title)
	if title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if ut.Status == "" {
		ut.Status = orig.Status
	}
	return validate.Struct(ut)
}
