package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/task"
)

// sseRecorder signals when the handler writes a body chunk, so the test can
// order its steps without polling the recorder from another goroutine.
type sseRecorder struct {
	*httptest.ResponseRecorder
	wrote chan struct{}
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		wrote:            make(chan struct{}, 1),
	}
}

func (rec *sseRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseRecorder.Write(b)
	select {
	case rec.wrote <- struct{}{}:
	default:
	}
	return n, err
}

func Test_notificationApi_stream(t *testing.T) {
	env := setup(t)

	staff := env.createUser(t, "Awe", "awe@agency.cd", "s3cr3t", true)
	emp := env.createEmployee(t, employee.Employee{
		Name:   "Awe",
		Email:  "awe@agency.cd",
		UserID: null.StringFrom(staff.ID),
	})

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := newAuthRequest(http.MethodGet, "/v1/notifications/stream", env.getToken(t, staff))
	req = req.WithContext(reqCtx)
	rec := newSSERecorder()

	done := make(chan struct{})
	go func() {
		env.server.ServeHTTP(rec, req)
		close(done)
	}()

	sub := env.taskEvents.waitSubscription(t)

	// a matching assignment transition reaches the client
	sub.events <- task.ChangeEvent{
		Op:     task.OpUpdate,
		Before: task.Task{Title: "Print flyers"},
		After:  task.Task{Title: "Print flyers", AssignedTo: null.StringFrom(emp.ID)},
	}
	select {
	case <-rec.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never written to the stream")
	}

	// disconnecting tears the subscription down before the handler returns
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return on client disconnect")
	}
	require.True(t, sub.isClosed())

	body := rec.Body.String()
	assert.Contains(t, body, "event: notification")
	assert.Contains(t, body, "New task assigned to you: Print flyers")
	assert.Contains(t, body, `"timeout_ms":5000`)
	assert.Contains(t, body, `"sound":true`)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
}
