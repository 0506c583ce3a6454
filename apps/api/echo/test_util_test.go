package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"os"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/client"
	"github.com/trezcool/wakala/core/document"
	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/task"
	"github.com/trezcool/wakala/core/user"
	"github.com/trezcool/wakala/core/vault"
	emailsvc "github.com/trezcool/wakala/services/email"
	logsvc "github.com/trezcool/wakala/services/logger"
	dummydb "github.com/trezcool/wakala/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

type testEnv struct {
	server *Server
	conf   *core.Config

	usrRepo user.Repository
	empRepo employee.Repository

	taskSvc    task.ServiceInterface
	taskEvents *stubEventSource
}

type stubEventSource struct {
	mu   sync.Mutex
	subs []*stubSubscription
}

func (s *stubEventSource) SubscribeTaskUpdates() (task.Subscription, error) {
	sub := &stubSubscription{
		events: make(chan task.ChangeEvent),
		closed: make(chan struct{}),
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub, nil
}

// waitSubscription blocks until a subscription has been opened.
func (s *stubEventSource) waitSubscription(t *testing.T) *stubSubscription {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.subs)
		s.mu.Unlock()
		if n > 0 {
			return s.subs[n-1]
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no subscription was opened")
	return nil
}

type stubSubscription struct {
	events    chan task.ChangeEvent
	closeOnce sync.Once
	closed    chan struct{}
}

func (s *stubSubscription) Events() <-chan task.ChangeEvent { return s.events }

func (s *stubSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.events)
		close(s.closed)
	})
	return nil
}

func (s *stubSubscription) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func setup(t *testing.T) *testEnv {
	return setupWithUserRepo(t, nil)
}

// setupWithUserRepo lets a test wrap the user store, e.g. with a failing one.
func setupWithUserRepo(t *testing.T, wrap func(user.Repository) user.Repository) *testEnv {
	t.Helper()

	conf := &core.Config{
		TestMode:         true,
		AppName:          "Wakala",
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Wakala", Address: "noreply@localhost"},
		AdminEmail:       "boss@agency.cd",

		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,

		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
	core.Conf = conf

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	if wrap != nil {
		usrRepo = wrap(usrRepo)
	}
	empRepo := dummydb.NewEmployeeRepository(db)

	logger := logsvc.NewTestLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo, mailSvc, logger, conf)
	empSvc := employee.NewService(empRepo)
	taskSvc := task.NewService(dummydb.NewTaskRepository(db))
	taskEvents := &stubEventSource{}

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator, logger)
	task.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         usrSvc,
		EmployeeSvc:     empSvc,
		SessionResolver: session.NewResolver(empRepo, logger, conf),
		TaskSvc:         taskSvc,
		TaskEvents:      taskEvents,
		ClientSvc:       client.NewService(dummydb.NewClientRepository(db)),
		VaultSvc:        vault.NewService(dummydb.NewVaultRepository(db)),
		DocumentSvc:     document.NewService(dummydb.NewDocumentRepository(db)),
		Validate:        validate,
		Translator:      translator,
		DisableReqLogs:  true,
	})

	return &testEnv{
		server:     server,
		conf:       conf,
		usrRepo:    usrRepo,
		empRepo:    empRepo,
		taskSvc:    taskSvc,
		taskEvents: taskEvents,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (env *testEnv) createUser(t *testing.T, name, email, pwd string, isActive bool) user.User {
	t.Helper()

	usr := user.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    core.CleanString(email, true /* lower */),
		IsActive: isActive,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

func (env *testEnv) createEmployee(t *testing.T, emp employee.Employee) employee.Employee {
	t.Helper()

	if emp.ID == "" {
		emp.ID = uuid.New().String()
	}
	emp.Email = core.CleanString(emp.Email, true /* lower */)
	emp, err := env.empRepo.CreateEmployee(context.Background(), emp)
	if err != nil {
		t.Fatalf("CreateEmployee() failed, %v", err)
	}
	return emp
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := env.server.jwt.generateToken(env.server.jwt.getUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed, %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed, %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed, %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
