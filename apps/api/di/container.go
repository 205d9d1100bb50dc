// Package di wires the API dependencies with a dig.Container.
package di

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/itsite/apps/api/echo"
	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
	emailsvc "github.com/trezcool/itsite/services/email"
	"github.com/trezcool/itsite/services/filestore"
	logsvc "github.com/trezcool/itsite/services/logger"
	"github.com/trezcool/itsite/storage/database"
	inmemdb "github.com/trezcool/itsite/storage/database/inmem"
	sqlxrepos "github.com/trezcool/itsite/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Repositories are backed by the configured database engine.
	// DB is nil for the in-memory engine.
	Repositories struct {
		dig.Out
		DB            *sqlx.DB
		Users         user.Repository
		Submissions   submission.Repository
		Courses       course.Repository
		Content       content.Repository
		Registrations course.RegistrationCounter
	}

	ServerParams struct {
		dig.In
		Conf          *core.Config
		Logger        core.Logger
		Files         core.FileStore
		UserSvc       user.ServiceInterface
		SubmissionSvc submission.ServiceInterface
		CourseSvc     course.ServiceInterface
		ContentSvc    content.ServiceInterface
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!(conf.Debug || conf.TestMode))
	return logger
}

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) (Repositories, error) {
	if conf.Database.Engine == database.Memory {
		loggerParam.Logger.Warn("using the in-memory database: data is lost on shutdown")
		db := inmemdb.Open()
		subs := inmemdb.NewSubmissionRepository(db)
		return Repositories{
			Users:         inmemdb.NewUserRepository(db),
			Submissions:   subs,
			Courses:       inmemdb.NewCourseRepository(db),
			Content:       inmemdb.NewContentRepository(db),
			Registrations: subs,
		}, nil
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		return Repositories{}, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(conf)
	if err != nil {
		return Repositories{}, errors.Wrap(err, "opening database")
	}
	if err = database.Migrate(db.DB, conf.Database.Engine); err != nil {
		_ = db.Close()
		return Repositories{}, errors.Wrap(err, "migrating database")
	}

	repos := sqlxrepos.New(db)
	subs := sqlxrepos.NewSubmissionRepository(repos)
	return Repositories{
		DB:            db,
		Users:         sqlxrepos.NewUserRepository(repos),
		Submissions:   subs,
		Courses:       sqlxrepos.NewCourseRepository(repos),
		Content:       sqlxrepos.NewContentRepository(repos),
		Registrations: subs,
	}, nil
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridApiKey == "" {
		return emailsvc.NewConsoleService(logger, conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newFileStore(conf *core.Config) (core.FileStore, error) {
	return filestore.New(context.Background(), conf.Storage)
}

// submission intake looks courses up through the course service
func newCourseGetter(svc course.ServiceInterface) submission.CourseGetter {
	return svc
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Files:         p.Files,
		UserSvc:       p.UserSvc,
		SubmissionSvc: p.SubmissionSvc,
		CourseSvc:     p.CourseSvc,
		ContentSvc:    p.ContentSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) (*dig.Container, error) {
	c := dig.New()

	providers := []struct {
		constructor interface{}
		opts        []dig.ProvideOption
	}{
		{constructor: newConfig},
		{constructor: newLogger},
		{constructor: newDBLogger, opts: []dig.ProvideOption{dig.Name("dbLogger")}},
		{constructor: newRepositories},
		{constructor: newEmailService},
		{constructor: newFileStore},
		{constructor: user.NewService},
		{constructor: course.NewService},
		{constructor: newCourseGetter},
		{constructor: submission.NewService},
		{constructor: content.NewService},
		{constructor: newServer},
	}
	for _, p := range providers {
		if err := c.Provide(p.constructor, p.opts...); err != nil {
			return nil, errors.Wrap(err, "failed to provide dependency")
		}
	}
	return c, nil
}
