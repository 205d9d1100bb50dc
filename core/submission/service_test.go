package submission_test

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	logsvc "github.com/trezcool/itsite/services/logger"
	inmemdb "github.com/trezcool/itsite/storage/database/inmem"
	"github.com/trezcool/itsite/tests"
)

type mailRecorder struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, messages...)
}

func (m *mailRecorder) templates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.sent))
	for _, msg := range m.sent {
		names = append(names, msg.TemplateName)
	}
	return names
}

type memFiles struct {
	files   map[string]bool
	saveErr error
}

func (fs *memFiles) Save(_ context.Context, key string, _ core.Upload) (string, error) {
	if fs.saveErr != nil {
		return "", fs.saveErr
	}
	url := "/uploads/" + key
	fs.files[url] = true
	return url, nil
}

func (fs *memFiles) Delete(_ context.Context, url string) error {
	delete(fs.files, url)
	return nil
}

// failingRepo fails every write, to check uploads are not left behind.
type failingRepo struct {
	submission.Repository
}

func (failingRepo) CreateProjectSubmission(context.Context, submission.ProjectSubmission) (submission.ProjectSubmission, error) {
	return submission.ProjectSubmission{}, errors.New("disk full")
}

func (failingRepo) CreateCourseRegistration(context.Context, submission.CourseRegistration) (submission.CourseRegistration, error) {
	return submission.CourseRegistration{}, errors.New("disk full")
}

type testEnv struct {
	svc        submission.ServiceInterface
	repo       submission.Repository
	courseRepo course.Repository
	files      *memFiles
	mail       *mailRecorder
}

func setup(t *testing.T, wrap ...func(submission.Repository) submission.Repository) *testEnv {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	db := inmemdb.Open()
	env := &testEnv{
		repo:       inmemdb.NewSubmissionRepository(db),
		courseRepo: inmemdb.NewCourseRepository(db),
		files:      &memFiles{files: make(map[string]bool)},
		mail:       &mailRecorder{},
	}
	repo := env.repo
	for _, w := range wrap {
		repo = w(repo)
	}
	courses := course.NewService(env.courseRepo, env.repo)
	env.svc = submission.NewService(repo, courses, env.files, env.mail, logger, conf)

	testutil.CreateCourse(t, env.courseRepo, "frontend-web-dev", "Frontend Web Dev", true, 0)
	testutil.CreateCourse(t, env.courseRepo, "retired", "Retired", false, 1)
	return env
}

func pdf(t *testing.T) *core.Upload {
	up, err := core.ReadUpload("file", "receipt.pdf", bytes.NewReader([]byte("%PDF-1.4\n%âãÏÓ\n")), 1<<20)
	require.NoError(t, err)
	return up
}

func TestService_SubmitProject(t *testing.T) {
	ctx := context.Background()

	t.Run("pending with trimmed fields", func(t *testing.T) {
		env := setup(t)
		ps, err := env.svc.SubmitProject(ctx, submission.NewProjectSubmission{
			Name:        "  Jane Doe ",
			Email:       "JANE@example.com",
			Description: "A storefront",
			Timeline:    "   ",
		}, nil, testutil.Int64Ptr(7))
		require.NoError(t, err)

		assert.NotZero(t, ps.ID)
		assert.Equal(t, submission.ProjectPending, ps.Status)
		assert.Equal(t, "Jane Doe", ps.Name)
		assert.Equal(t, "jane@example.com", ps.Email)
		assert.Nil(t, ps.Timeline, "blank optional fields are absent")
		assert.Equal(t, int64(7), *ps.UserID)
		assert.Equal(t, []string{"project_received", "admin_new_submission"}, env.mail.templates())
	})

	t.Run("file is stored", func(t *testing.T) {
		env := setup(t)
		ps, err := env.svc.SubmitProject(ctx, submission.NewProjectSubmission{
			Name: "Jane", Email: "jane@example.com", Description: "A storefront",
		}, pdf(t), nil)
		require.NoError(t, err)
		require.NotNil(t, ps.FileURL)
		assert.True(t, strings.HasPrefix(*ps.FileURL, "/uploads/projects/"))
		assert.True(t, env.files.files[*ps.FileURL])
	})

	t.Run("validation", func(t *testing.T) {
		env := setup(t)
		_, err := env.svc.SubmitProject(ctx, submission.NewProjectSubmission{Name: "Jane", Email: "nope"}, nil, nil)
		assert.Error(t, err)
		assert.Empty(t, env.mail.templates())
	})

	t.Run("storage failure", func(t *testing.T) {
		env := setup(t)
		env.files.saveErr = errors.New("bucket gone")
		_, err := env.svc.SubmitProject(ctx, submission.NewProjectSubmission{
			Name: "Jane", Email: "jane@example.com", Description: "A storefront",
		}, pdf(t), nil)
		var storageErr *core.StorageError
		assert.True(t, errors.As(err, &storageErr))

		subs, err := env.repo.QueryProjectSubmissions(ctx, submission.ProjectFilter{})
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("failed write discards the file", func(t *testing.T) {
		env := setup(t, func(r submission.Repository) submission.Repository { return failingRepo{r} })
		_, err := env.svc.SubmitProject(ctx, submission.NewProjectSubmission{
			Name: "Jane", Email: "jane@example.com", Description: "A storefront",
		}, pdf(t), nil)
		assert.Error(t, err)
		assert.Empty(t, env.files.files)
	})
}

func TestService_SubmitCourseRegistration(t *testing.T) {
	ctx := context.Background()
	form := submission.NewCourseRegistration{CourseID: "Frontend-Web-Dev", Name: "Sam", Email: "sam@example.com"}

	t.Run("pending verification", func(t *testing.T) {
		env := setup(t)
		cr, err := env.svc.SubmitCourseRegistration(ctx, form, pdf(t), nil)
		require.NoError(t, err)
		assert.Equal(t, submission.RegistrationPendingVerification, cr.Status)
		assert.Equal(t, "frontend-web-dev", cr.CourseID)
		assert.True(t, strings.HasPrefix(cr.PaymentReceiptURL, "/uploads/receipts/"))
		assert.Equal(t, []string{"registration_received", "admin_new_submission"}, env.mail.templates())
	})

	t.Run("receipt required", func(t *testing.T) {
		env := setup(t)
		_, err := env.svc.SubmitCourseRegistration(ctx, form, nil, nil)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "paymentReceipt", vErr.Fields[0].Field)

		regs, err := env.repo.QueryCourseRegistrations(ctx, submission.RegistrationFilter{})
		require.NoError(t, err)
		assert.Empty(t, regs)
	})

	t.Run("inactive course", func(t *testing.T) {
		env := setup(t)
		f := form
		f.CourseID = "retired"
		_, err := env.svc.SubmitCourseRegistration(ctx, f, pdf(t), nil)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "courseId", vErr.Fields[0].Field)
		assert.Empty(t, env.files.files)
	})

	t.Run("failed write discards the receipt", func(t *testing.T) {
		env := setup(t, func(r submission.Repository) submission.Repository { return failingRepo{r} })
		_, err := env.svc.SubmitCourseRegistration(ctx, form, pdf(t), nil)
		assert.Error(t, err)
		assert.Empty(t, env.files.files)
	})
}

func TestService_StatusUpdates(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	ps := testutil.CreateProjectSubmission(t, env.repo, "Jane", "jane@example.com", submission.ProjectPending, nil)
	cr := testutil.CreateCourseRegistration(t, env.repo, "frontend-web-dev", "Sam", "sam@example.com",
		submission.RegistrationPendingVerification, nil)

	t.Run("project status equals the last update", func(t *testing.T) {
		for _, status := range []submission.ProjectStatus{
			submission.ProjectRejected, submission.ProjectCompleted, submission.ProjectPending,
		} {
			got, err := env.svc.UpdateProjectStatus(ctx, submission.UpdateProjectStatus{ID: ps.ID, Status: status})
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
		}
		_, err := env.svc.UpdateProjectStatus(ctx, submission.UpdateProjectStatus{ID: ps.ID, Status: "shipped"})
		assert.Error(t, err)
		_, err = env.svc.UpdateProjectStatus(ctx, submission.UpdateProjectStatus{ID: 404, Status: submission.ProjectPending})
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("registrant is told about approval and rejection only", func(t *testing.T) {
		env.mail.sent = nil
		steps := []struct {
			status    submission.RegistrationStatus
			wantMails int
		}{
			{status: submission.RegistrationPendingPayment, wantMails: 0},
			{status: submission.RegistrationApproved, wantMails: 1},
			{status: submission.RegistrationApproved, wantMails: 1}, // unchanged
			{status: submission.RegistrationCompleted, wantMails: 1},
			{status: submission.RegistrationRejected, wantMails: 2},
		}
		for _, step := range steps {
			got, err := env.svc.UpdateRegistrationStatus(ctx, submission.UpdateRegistrationStatus{ID: cr.ID, Status: step.status})
			require.NoError(t, err)
			assert.Equal(t, step.status, got.Status)
			assert.Len(t, env.mail.templates(), step.wantMails, step.status)
		}
	})

	t.Run("verify payment", func(t *testing.T) {
		for _, verified := range []bool{true, false} {
			v := verified
			got, err := env.svc.VerifyPayment(ctx, submission.VerifyPayment{ID: cr.ID, Verified: &v})
			require.NoError(t, err)
			assert.Equal(t, submission.VerifiedStatus(verified), got.Status)
		}
		_, err := env.svc.VerifyPayment(ctx, submission.VerifyPayment{ID: cr.ID})
		assert.Error(t, err, "the outcome is required")
	})
}

func TestService_QueryAll(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	testutil.CreateProjectSubmission(t, env.repo, "Jane", "jane@example.com", submission.ProjectPending, nil)
	done := testutil.CreateProjectSubmission(t, env.repo, "Joe", "joe@example.com", submission.ProjectCompleted, nil)
	testutil.CreateCourseRegistration(t, env.repo, "frontend-web-dev", "Sam", "sam@example.com",
		submission.RegistrationApproved, nil)

	all, err := env.svc.QueryAll(ctx, submission.ProjectFilter{}, submission.RegistrationFilter{})
	require.NoError(t, err)
	assert.Len(t, all.ProjectSubmissions, 2)
	assert.Len(t, all.CourseRegistrations, 1)

	filtered, err := env.svc.QueryAll(ctx,
		submission.ProjectFilter{Status: submission.ProjectCompleted},
		submission.RegistrationFilter{CourseID: "other"})
	require.NoError(t, err)
	assert.Equal(t, []submission.ProjectSubmission{done}, filtered.ProjectSubmissions)
	assert.Empty(t, filtered.CourseRegistrations)
}
