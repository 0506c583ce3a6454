package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/wakala/core"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, tsk Task) (Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		QueryAllTasks(ctx context.Context) ([]Task, error)
		QueryTasksByAssignee(ctx context.Context, employeeID string) ([]Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nt NewTask) (Task, error)
		QueryAll(ctx context.Context) ([]Task, error)
		QueryByAssignee(ctx context.Context, employeeID string) ([]Task, error)
		GetByID(ctx context.Context, id string) (Task, error)
		Update(ctx context.Context, id string, ut UpdateTask) (Task, error)
		Assign(ctx context.Context, id, employeeID string) (Task, error)
		Delete(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	tsk := Task{
		ID:         uuid.New().String(),
		Title:      nt.Title,
		Details:    nt.Details,
		Status:     nt.Status,
		ClientID:   nt.ClientID,
		AssignedTo: nt.AssignedTo,
		DueDate:    nt.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateTask(ctx, tsk)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Task, error) {
	return svc.repo.QueryAllTasks(ctx)
}

func (svc *Service) QueryByAssignee(ctx context.Context, employeeID string) ([]Task, error) {
	return svc.repo.QueryTasksByAssignee(ctx, employeeID)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTask) (Task, error) {
	orig, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	tsk := orig
	tsk.Title = ut.Title
	tsk.Status = ut.Status
	if ut.Details != nil {
		tsk.Details = core.CleanString(*ut.Details)
	}
	if ut.ClientID != nil {
		tsk.ClientID = *ut.ClientID
	}
	if ut.AssignedTo != nil {
		tsk.AssignedTo = *ut.AssignedTo
	}
	if ut.DueDate != nil {
		tsk.DueDate = *ut.DueDate
	}
	tsk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *Service) Assign(ctx context.Context, id, employeeID string) (Task, error) {
	tsk, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	tsk.AssignedTo.SetValid(employeeID)
	tsk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTasksByID(ctx, ids...)
}
