package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/wakala/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) query() []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

func (repo *taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.table[id]; ok {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *taskRepository) QueryTasksByAssignee(ctx context.Context, employeeID string) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var tasks []task.Task
	for _, tsk := range repo.query() {
		if tsk.AssignedTo.Valid && tsk.AssignedTo.String == employeeID {
			tasks = append(tasks, tsk)
		}
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tsk.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
