package tests

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	echoapi "github.com/trezcool/itsite/apps/api/echo"
	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
	appfs "github.com/trezcool/itsite/fs"
	emailsvc "github.com/trezcool/itsite/services/email"
	"github.com/trezcool/itsite/services/filestore"
	logsvc "github.com/trezcool/itsite/services/logger"
	inmemdb "github.com/trezcool/itsite/storage/database/inmem"
	"github.com/trezcool/itsite/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}

	pdfContent = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	pngContent = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
)

func TestMain(m *testing.M) {
	conf := core.NewTestConfig()
	if err := core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.FrontendBaseURL, true); err != nil {
		fmt.Printf("ParseEmailTemplates(): %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type testEnv struct {
	app         *echoapi.Server
	conf        *core.Config
	uploadsDir  string
	usrRepo     user.Repository
	subsRepo    submission.Repository
	courseRepo  course.Repository
	contentRepo content.Repository
}

// setup returns a server over a fresh in-memory database.
func setup(t *testing.T) *testEnv {
	conf := core.NewTestConfig()
	conf.Storage.LocalDir = t.TempDir()
	emailsvc.ResetSentMessages()

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	// set up DB & repos
	db := inmemdb.Open()
	env := &testEnv{
		conf:        conf,
		uploadsDir:  conf.Storage.LocalDir,
		usrRepo:     inmemdb.NewUserRepository(db),
		subsRepo:    inmemdb.NewSubmissionRepository(db),
		courseRepo:  inmemdb.NewCourseRepository(db),
		contentRepo: inmemdb.NewContentRepository(db),
	}

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(logger, conf)
	files, err := filestore.NewLocalStore(conf.Storage.LocalDir, conf.Storage.BaseURL)
	if err != nil {
		t.Fatalf("NewLocalStore() failed: %v", err)
	}
	courseSvc := course.NewService(env.courseRepo, env.subsRepo)

	// set up server
	env.app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Files:         files,
		UserSvc:       user.NewService(env.usrRepo, mailSvc, conf),
		SubmissionSvc: submission.NewService(env.subsRepo, courseSvc, files, mailSvc, logger, conf),
		CourseSvc:     courseSvc,
		ContentSvc:    content.NewService(env.contentRepo),
	})
	t.Cleanup(func() { _ = env.app.Close() })
	return env
}

func (env *testEnv) token(t *testing.T, usr user.User) string {
	token, err := env.app.GenerateToken(usr)
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func (env *testEnv) createUser(t *testing.T, name, email string, role user.Role) user.User {
	return testutil.CreateUser(t, env.usrRepo, name, email, "Pa$$w0rd!", role, true)
}
