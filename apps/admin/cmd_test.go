package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"testing"

	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/user"
	dummydb "github.com/trezcool/wakala/storage/database/dummy"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	return &commandLine{
		usrRepo: dummydb.NewUserRepository(db),
		empRepo: dummydb.NewEmployeeRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME argument")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create requires a NAME argument"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to requires a VERSION argument"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "task", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	ctx := context.Background()
	usr := user.User{ID: "u1", Name: "User", Email: "awe@test.cd", IsActive: true}
	if err := usr.SetPassword("mdr"); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	if _, err := cli.usrRepo.CreateUser(ctx, usr); err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "missing name", args: []string{"adduser", "-email", "a@test.cd"}, wantErr: errHelp},
		{name: "missing email", args: []string{"adduser", "-name", "A"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-name", "A", "-email", "a@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-name", "A", "-email", "a@test.cd"}, pwd: "s3cret"},
		{name: "update existing", args: []string{"adduser", "-name", "A2", "-email", "a@test.cd"}, pwd: "s3cret2"},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			usr, err := cli.usrRepo.GetUser(context.Background(), user.GetFilter{Email: "a@test.cd"})
			if err != nil {
				t.Fatalf("GetUser() failed, %v", err)
			}
			if err := usr.CheckPassword(tt.pwd); err != nil {
				t.Error("password was not set")
			}
		})
	}
}

func Test_commandLine_addEmployee(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "missing name", args: []string{"addemployee", "-email", "e@test.cd"}, wantErr: errHelp},
		{name: "missing email", args: []string{"addemployee", "-name", "E"}, wantErr: errHelp},
		{name: "create", args: []string{"addemployee", "-name", "E", "-email", "e@test.cd", "-role", "Designer"}},
		{name: "duplicate email", args: []string{"addemployee", "-name", "E2", "-email", "e@test.cd"}, wantErr: employee.ErrEmailExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			emp, err := cli.empRepo.GetEmployee(context.Background(), employee.GetFilter{Email: "e@test.cd"})
			if err != nil {
				t.Fatalf("GetEmployee() failed, %v", err)
			}
			if emp.Role != "Designer" {
				t.Errorf("Role = %q, want %q", emp.Role, "Designer")
			}
		})
	}
}
