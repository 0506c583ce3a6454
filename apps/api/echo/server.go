package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/wakala/core"
	"github.com/trezcool/wakala/core/client"
	"github.com/trezcool/wakala/core/document"
	"github.com/trezcool/wakala/core/employee"
	"github.com/trezcool/wakala/core/session"
	"github.com/trezcool/wakala/core/task"
	"github.com/trezcool/wakala/core/user"
	"github.com/trezcool/wakala/core/vault"
)

type (
	ServerDeps struct {
		Conf            *core.Config
		Logger          core.Logger
		UserSvc         user.ServiceInterface
		EmployeeSvc     employee.ServiceInterface
		SessionResolver *session.Resolver
		TaskSvc         task.ServiceInterface
		TaskEvents      task.EventSource
		ClientSvc       client.ServiceInterface
		VaultSvc        vault.ServiceInterface
		DocumentSvc     document.ServiceInterface
		Validate        *validator.Validate
		Translator      ut.Translator
		DisableReqLogs  bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      *jwtHelper
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newJWTHelper(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := s.jwt.middleware()
	sess := sessionMiddleware(s.jwt, s.deps.UserSvc, s.deps.SessionResolver)

	registerAuthAPI(v1, jwt, sess, s.jwt, s.deps.UserSvc, s.deps.Validate)
	registerSessionAPI(v1, jwt, sess)
	registerEmployeeAPI(v1, jwt, sess, s.deps.EmployeeSvc, s.deps.Validate)
	registerTaskAPI(v1, jwt, sess, s.deps.TaskSvc, s.deps.Validate)
	registerClientAPI(v1, jwt, sess, s.deps.ClientSvc, s.deps.Validate)
	registerVaultAPI(v1, jwt, sess, s.deps.VaultSvc, s.deps.Validate)
	registerDocumentAPI(v1, jwt, sess, s.deps.DocumentSvc, s.deps.Validate)
	registerNotificationAPI(v1, jwt, sess, s.deps.TaskEvents, s.deps.Logger)
}

// Start runs the listener; the outcome lands on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown requests a graceful shutdown from within a request cycle.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Wakala API!")
}
