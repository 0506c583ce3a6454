package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/wakala/core/employee"
)

type employeeRepository struct {
	db *employeeTable
}

var _ employee.Repository = (*employeeRepository)(nil) // interface compliance check

func NewEmployeeRepository(db *DB) employee.Repository {
	return &employeeRepository{db: db.employee}
}

func (repo *employeeRepository) query() []employee.Employee {
	emps := make([]employee.Employee, 0, len(repo.db.table))
	for _, e := range repo.db.table {
		emps = append(emps, *e)
	}
	sort.Slice(emps, func(i, j int) bool { return emps[i].Name < emps[j].Name })
	return emps
}

func (repo *employeeRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...employee.Employee) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, emp := range repo.query() {
		if emp.Email != email {
			continue
		}
		var skip bool
		for _, ex := range excluded {
			if ex.ID == emp.ID {
				skip = true
				break
			}
		}
		if !skip {
			return employee.ErrEmailExists
		}
	}
	return nil
}

func (repo *employeeRepository) CreateEmployee(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[emp.ID] = &emp
	return emp, nil
}

func (repo *employeeRepository) GetEmployee(ctx context.Context, filter employee.GetFilter) (employee.Employee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if emp, ok := repo.db.table[filter.ID]; ok {
			return *emp, nil
		}
	case filter.UserID != "":
		for _, emp := range repo.query() {
			if emp.UserID.Valid && emp.UserID.String == filter.UserID {
				return emp, nil
			}
		}
	case filter.Email != "":
		for _, emp := range repo.query() {
			if emp.Email == filter.Email {
				return emp, nil
			}
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (repo *employeeRepository) QueryAllEmployees(ctx context.Context) ([]employee.Employee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *employeeRepository) UpdateEmployee(ctx context.Context, emp employee.Employee, canViewPlans *bool) (employee.Employee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[emp.ID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	if emp.Name != "" {
		orig.Name = emp.Name
	}
	if emp.Email != "" {
		orig.Email = emp.Email
	}
	if emp.Role != "" {
		orig.Role = emp.Role
	}
	if canViewPlans != nil {
		orig.CanViewPlans = *canViewPlans
	}
	if emp.PlanPermissions != nil {
		orig.PlanPermissions = emp.PlanPermissions
	}
	if emp.NavPermissions != nil {
		orig.NavPermissions = emp.NavPermissions
	}
	if emp.VaultPermissions != nil {
		orig.VaultPermissions = emp.VaultPermissions
	}
	orig.UpdatedAt = emp.UpdatedAt
	return *orig, nil
}

func (repo *employeeRepository) SetEmployeeUser(ctx context.Context, employeeID, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	emp, ok := repo.db.table[employeeID]
	if !ok {
		return employee.ErrNotFound
	}
	if emp.UserID.Valid && emp.UserID.String != userID {
		return employee.ErrAlreadyLinked
	}
	emp.UserID.SetValid(userID)
	emp.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *employeeRepository) DeleteEmployeesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
