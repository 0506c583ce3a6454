package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/task"
)

func (env *testEnv) createTask(t *testing.T, nt task.NewTask) task.Task {
	t.Helper()

	tsk, err := env.taskSvc.Create(context.Background(), nt)
	if err != nil {
		t.Fatalf("Create() failed, %v", err)
	}
	return tsk
}

func Test_taskApi(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "Boss", "boss@agency.cd", "s3cr3t", true)
	staff := env.createUser(t, "Awe", "awe@agency.cd", "s3cr3t", true)
	outsider := env.createUser(t, "Intern", "intern@agency.cd", "s3cr3t", true)

	emp := env.createEmployee(t, employee.Employee{
		Name:           "Awe",
		Email:          "awe@agency.cd",
		UserID:         null.StringFrom(staff.ID),
		Role:           "Designer",
		NavPermissions: employee.BoolMap{session.SectionTasks: true},
	})
	env.createEmployee(t, employee.Employee{
		Name:   "Intern",
		Email:  "intern@agency.cd",
		UserID: null.StringFrom(outsider.ID),
	})

	banner := env.createTask(t, task.NewTask{Title: "Design banner"})
	flyers := env.createTask(t, task.NewTask{Title: "Print flyers", AssignedTo: null.StringFrom(emp.ID)})

	adminToken := env.getToken(t, admin)
	staffToken := env.getToken(t, staff)
	outsiderToken := env.getToken(t, outsider)

	tests := []httpTest{
		{
			name:     "Auth required",
			method:   http.MethodGet,
			path:     "/v1/tasks",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "Tasks section permission required",
			method:   http.MethodGet,
			path:     "/v1/tasks",
			token:    outsiderToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "List all",
			method:   http.MethodGet,
			path:     "/v1/tasks",
			token:    staffToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, banner, flyers),
		},
		{
			name:     "List mine",
			method:   http.MethodGet,
			path:     "/v1/tasks/mine",
			token:    staffToken,
			wantCode: http.StatusOK,
			wantData: marchallList(t, flyers),
		},
		{
			name:     "List mine without employee linkage is empty",
			method:   http.MethodGet,
			path:     "/v1/tasks/mine",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte("[]"),
		},
		{
			name:     "Retrieve",
			method:   http.MethodGet,
			path:     "/v1/tasks/" + banner.ID,
			token:    staffToken,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, banner),
		},
		{
			name:     "Retrieve unknown task",
			method:   http.MethodGet,
			path:     "/v1/tasks/nope",
			token:    adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "task not found"}),
		},
		{
			name:     "Create requires a title",
			method:   http.MethodPost,
			path:     "/v1/tasks",
			token:    staffToken,
			body:     []byte(`{"details": "no title"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
		{
			name:     "Assign requires an employee",
			method:   http.MethodPut,
			path:     "/v1/tasks/" + banner.ID + "/assign",
			token:    staffToken,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"employee_id": "this field is required"}),
		},
		{
			name:     "Delete is admin only",
			method:   http.MethodDelete,
			path:     "/v1/tasks/" + banner.ID,
			token:    staffToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Create", func(t *testing.T) {
		body := []byte(`{"title": "Call the printer", "details": "before noon"}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/tasks", staffToken, body)
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var tsk task.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
		assert.NotEmpty(t, tsk.ID)
		assert.Equal(t, "Call the printer", tsk.Title)
		assert.Equal(t, "before noon", tsk.Details)
		assert.Equal(t, task.StatusOpen, tsk.Status)
	})

	t.Run("Assign", func(t *testing.T) {
		body := marchallObj(t, AssignTaskRequest{EmployeeID: emp.ID})
		req, rec := newAuthRequest(http.MethodPut, "/v1/tasks/"+banner.ID+"/assign", staffToken, body)
		env.server.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var tsk task.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tsk))
		assert.Equal(t, emp.ID, tsk.AssignedTo.String)
	})

	t.Run("Delete", func(t *testing.T) {
		doomed := env.createTask(t, task.NewTask{Title: "Doomed"})
		req, rec := newAuthRequest(http.MethodDelete, "/v1/tasks/"+doomed.ID, adminToken)
		env.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

		_, err := env.taskSvc.GetByID(context.Background(), doomed.ID)
		assert.Equal(t, task.ErrNotFound, err)
	})
}
