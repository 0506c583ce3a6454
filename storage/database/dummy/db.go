package dummydb

import (
	"sync"

	"github.com/trezcool/wakala/core/client"
	"github.com/trezcool/wakala/core/document"
	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/task"
	"github.com/trezcool/wakala/core/user"
	"github.com/trezcool/wakala/core/vault"
)

type (
	DB struct {
		user       *userTable
		employee   *employeeTable
		task       *taskTable
		client     *clientTable
		campaign   *campaignTable
		category   *categoryTable
		credential *credentialTable
		document   *documentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	employeeTable struct {
		sync.RWMutex
		table map[string]*employee.Employee
	}

	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}

	clientTable struct {
		sync.RWMutex
		table map[string]*client.Client
	}

	campaignTable struct {
		sync.RWMutex
		table map[string]*client.Campaign
	}

	categoryTable struct {
		sync.RWMutex
		table map[string]*vault.Category
	}

	credentialTable struct {
		sync.RWMutex
		table map[string]*vault.Credential
	}

	documentTable struct {
		sync.RWMutex
		table map[string]*document.Document
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		employee:   &employeeTable{table: make(map[string]*employee.Employee)},
		task:       &taskTable{table: make(map[string]*task.Task)},
		client:     &clientTable{table: make(map[string]*client.Client)},
		campaign:   &campaignTable{table: make(map[string]*client.Campaign)},
		category:   &categoryTable{table: make(map[string]*vault.Category)},
		credential: &credentialTable{table: make(map[string]*vault.Credential)},
		document:   &documentTable{table: make(map[string]*document.Document)},
	}
	return db, nil
}
