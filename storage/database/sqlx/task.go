package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/task"
)

// newest first
var taskOrdering = core.DBOrdering{Field: "created_at"}

type taskRow struct {
	ID         string      `db:"id"`
	Title      string      `db:"title"`
	Details    string      `db:"details"`
	Status     string      `db:"status"`
	ClientID   null.String `db:"client_id"`
	AssignedTo null.String `db:"assigned_to"`
	DueDate    null.Time   `db:"due_date"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r taskRow) unpack() task.Task {
	return task.Task{
		ID:         r.ID,
		Title:      r.Title,
		Details:    r.Details,
		Status:     r.Status,
		ClientID:   r.ClientID,
		AssignedTo: r.AssignedTo,
		DueDate:    r.DueDate,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	query := `
		INSERT INTO task (id, title, details, status, client_id, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(
		ctx, query,
		tsk.ID, tsk.Title, tsk.Details, tsk.Status, tsk.ClientID, tsk.AssignedTo, tsk.DueDate, tsk.CreatedAt, tsk.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return tsk, nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var row taskRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM task WHERE id = $1`, id); err != nil {
		return task.Task{}, trapNoRowsErr(err, task.ErrNotFound, "getting task")
	}
	return row.unpack(), nil
}

func (repo taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM task ORDER BY `+taskOrdering.String()); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return unpackTasks(rows), nil
}

func (repo taskRepository) QueryTasksByAssignee(ctx context.Context, employeeID string) ([]task.Task, error) {
	var rows []taskRow
	query := `SELECT * FROM task WHERE assigned_to = $1 ORDER BY ` + taskOrdering.String()
	if err := repo.db.SelectContext(ctx, &rows, query, employeeID); err != nil {
		return nil, errors.Wrap(err, "querying tasks by assignee")
	}
	return unpackTasks(rows), nil
}

func unpackTasks(rows []taskRow) []task.Task {
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.unpack())
	}
	return tasks
}

func (repo taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	query := `
		UPDATE task SET
			title = $2, details = $3, status = $4, client_id = $5,
			assigned_to = $6, due_date = $7, updated_at = $8
		WHERE id = $1`
	res, err := repo.db.ExecContext(
		ctx, query,
		tsk.ID, tsk.Title, tsk.Details, tsk.Status, tsk.ClientID, tsk.AssignedTo, tsk.DueDate, tsk.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return tsk, nil
}

func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
