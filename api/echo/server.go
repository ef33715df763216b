// Package echoapi exposes the points economy over HTTP.
//
// One departure from the legacy system this replaces: failures are reported
// with real HTTP status codes (400/404/409/500) instead of a success flag in a
// 200 body.
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

	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/class"
	"github.com/trezcool/duka/core/directory"
	"github.com/trezcool/duka/core/shop"
	"github.com/trezcool/duka/core/student"
	"github.com/trezcool/duka/core/teacher"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Directory  *directory.Directory
		ClassSvc   class.ServiceInterface
		StudentSvc student.ServiceInterface
		TeacherSvc teacher.ServiceInterface
		ShopSvc    shop.ServiceInterface
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		addr     string
		app      *echo.Echo
		deps     *ServerDeps
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(addr string, deps *ServerDeps) *Server {
	s := &Server{
		addr:     addr,
		app:      echo.New(),
		deps:     deps,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerLoginAPI(v1, s.deps.Directory, s.deps.Validate)
	registerClassAPI(v1, s.deps.ClassSvc, s.deps.Validate)
	registerStudentAPI(v1, s.deps.StudentSvc, s.deps.Validate)
	registerTeacherAPI(v1, s.deps.TeacherSvc, s.deps.Validate)
	registerShopAPI(v1, s.deps.ShopSvc, s.deps.Validate)
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := s.app.Start(s.addr); err != nil && err != http.ErrServerClosed {
			s.errors <- err
		}
	}()
}

// Errors reports a fatal server error.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal is triggered on SIGINT/SIGTERM or on an integrity fault that
// requires the process to bail out.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
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
	return ctx.String(http.StatusOK, "Welcome to Duka API!")
}

type DetailResponse struct {
	Detail string `json:"detail"`
}
