package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
	"github.com/trezcool/itsite/services/filestore"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		Files         core.FileStore
		UserSvc       user.ServiceInterface
		SubmissionSvc submission.ServiceInterface
		CourseSvc     course.ServiceInterface
		ContentSvc    content.ServiceInterface
	}

	Server struct {
		conf     *core.Config
		app      *echo.Echo
		auth     *authenticator
		shutdown chan os.Signal
		errors   chan error
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:     deps.Conf,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf, deps.UserSvc),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps ServerDeps) {
	conf := deps.Conf

	s.app.HideBanner = conf.TestMode
	s.app.HidePort = conf.TestMode
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	s.app.Use(middleware.BodyLimit(bodyLimit(conf.Storage.MaxUploadSize)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, s.auth, s.SignalShutdown)
	s.app.Debug = conf.Debug

	if (conf.Storage.Backend == filestore.BackendLocal || conf.Storage.Backend == "") && conf.Storage.LocalDir != "" {
		s.app.Static(conf.Storage.BaseURL, conf.Storage.LocalDir)
	}

	s.app.GET("/", s.home)

	g := s.app.Group("/api")
	session := s.auth.sessionMiddleware()
	jwt := s.auth.jwtMiddleware()
	admin := g.Group("/admin", session, s.auth.adminMiddleware())
	me := g.Group("/me", jwt)

	registerAuthAPI(g, jwt, session, s.auth, deps.UserSvc)
	registerSubmissionAPI(g, admin, me, session, s.auth, deps.SubmissionSvc, conf.Storage.MaxUploadSize)
	registerCourseAPI(g, admin, me, s.auth, deps.CourseSvc, deps.SubmissionSvc)
	registerContentAPI(g, admin, deps.ContentSvc)
	registerUploadAPI(admin, deps.Files, conf.Storage.MaxUploadSize)
}

// bodyLimit leaves room for the other multipart fields around an upload.
func bodyLimit(maxUploadSize int64) string {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return formatKiB(maxUploadSize + 1<<20)
}

// Start starts the server; errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors reports server errors.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal reports OS interrupts and shutdowns requested by the app.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown is used to gracefully shutdown the server when an integrity issue is identified.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the "+s.conf.AppName+" API!")
}

// GenerateToken returns a signed session token for usr.
func (s *Server) GenerateToken(usr user.User, origIat ...int64) (string, error) {
	return s.auth.GenerateToken(s.auth.GetUserClaims(usr, origIat...))
}
