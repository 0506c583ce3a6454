package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/employee"
)

// addEmployee creates an employee record with empty permission maps; the
// admin grants access from the app afterwards.
func (cli *commandLine) addEmployee(name, email, role string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if err := cli.empRepo.CheckEmailUniqueness(ctx, email); err != nil {
		return err
	}

	now := time.Now().UTC()
	emp := employee.Employee{
		ID:               uuid.New().String(),
		Name:             core.CleanString(name),
		Email:            email,
		Role:             core.CleanString(role),
		PlanPermissions:  employee.BoolMap{},
		NavPermissions:   employee.BoolMap{},
		VaultPermissions: employee.PermMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	_, err := cli.empRepo.CreateEmployee(ctx, emp)
	return err
}
