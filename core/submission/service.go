package submission

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
)

var (
	// errors
	ErrProjectNotFound      = core.NewNotFoundError("project submission")
	ErrRegistrationNotFound = core.NewNotFoundError("course registration")
)

// upload kinds, used as storage key prefixes
const (
	projectFilesKind = "projects"
	receiptsKind     = "receipts"
)

type (
	Repository interface {
		CreateProjectSubmission(ctx context.Context, ps ProjectSubmission) (ProjectSubmission, error)
		QueryProjectSubmissions(ctx context.Context, filter ProjectFilter) ([]ProjectSubmission, error)
		GetProjectSubmission(ctx context.Context, id int64) (ProjectSubmission, error)
		SetProjectStatus(ctx context.Context, id int64, status ProjectStatus, at time.Time) (ProjectSubmission, error)

		CreateCourseRegistration(ctx context.Context, cr CourseRegistration) (CourseRegistration, error)
		QueryCourseRegistrations(ctx context.Context, filter RegistrationFilter) ([]CourseRegistration, error)
		GetCourseRegistration(ctx context.Context, id int64) (CourseRegistration, error)
		SetRegistrationStatus(ctx context.Context, id int64, status RegistrationStatus, at time.Time) (CourseRegistration, error)
		CountCourseRegistrations(ctx context.Context, courseID string) (int, error)
	}

	// CourseGetter finds the course a registration is for.
	CourseGetter interface {
		Get(ctx context.Context, id string) (course.Course, error)
	}

	ServiceInterface interface {
		SubmitProject(ctx context.Context, np NewProjectSubmission, file *core.Upload, userID *int64) (ProjectSubmission, error)
		SubmitCourseRegistration(ctx context.Context, nr NewCourseRegistration, receipt *core.Upload, userID *int64) (CourseRegistration, error)

		QueryAll(ctx context.Context, pf ProjectFilter, rf RegistrationFilter) (Submissions, error)
		QueryProjectSubmissions(ctx context.Context, filter ProjectFilter) ([]ProjectSubmission, error)
		QueryCourseRegistrations(ctx context.Context, filter RegistrationFilter) ([]CourseRegistration, error)
		GetProjectSubmission(ctx context.Context, id int64) (ProjectSubmission, error)
		GetCourseRegistration(ctx context.Context, id int64) (CourseRegistration, error)

		UpdateProjectStatus(ctx context.Context, data UpdateProjectStatus) (ProjectSubmission, error)
		UpdateRegistrationStatus(ctx context.Context, data UpdateRegistrationStatus) (CourseRegistration, error)
		VerifyPayment(ctx context.Context, data VerifyPayment) (CourseRegistration, error)
	}

	service struct {
		repo       Repository
		courses    CourseGetter
		files      core.FileStore
		mailSvc    core.EmailService
		logger     core.Logger
		adminEmail mail.Address
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	courses CourseGetter,
	files core.FileStore,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) ServiceInterface {
	return &service{
		repo:       repo,
		courses:    courses,
		files:      files,
		mailSvc:    mailSvc,
		logger:     logger,
		adminEmail: mail.Address{Name: conf.AppName, Address: conf.AdminEmail},
	}
}

// SubmitProject records a project inquiry with status pending.
// The optional file is stored before the row is written; a failed write removes it again.
func (svc *service) SubmitProject(
	ctx context.Context,
	np NewProjectSubmission,
	file *core.Upload,
	userID *int64,
) (ProjectSubmission, error) {
	if err := np.Validate(); err != nil {
		return ProjectSubmission{}, err
	}

	var fileURL *string
	if file != nil {
		url, err := svc.files.Save(ctx, core.UploadKey(projectFilesKind, *file), *file)
		if err != nil {
			return ProjectSubmission{}, core.NewStorageError(err)
		}
		fileURL = &url
	}

	now := core.NowFunc()
	ps, err := svc.repo.CreateProjectSubmission(ctx, ProjectSubmission{
		UserID:      userID,
		Name:        np.Name,
		Email:       np.Email,
		Company:     core.StringPtr(np.Company),
		ProjectType: core.StringPtr(np.ProjectType),
		BudgetRange: core.StringPtr(np.BudgetRange),
		Timeline:    core.StringPtr(np.Timeline),
		Description: np.Description,
		FileURL:     fileURL,
		Status:      ProjectPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if fileURL != nil {
			svc.discardFile(ctx, *fileURL)
		}
		return ProjectSubmission{}, errors.Wrap(err, "creating project submission")
	}

	svc.notifyProjectReceived(ps)
	return ps, nil
}

// SubmitCourseRegistration records a registration for an active course with status
// pending_verification. A payment receipt is mandatory.
func (svc *service) SubmitCourseRegistration(
	ctx context.Context,
	nr NewCourseRegistration,
	receipt *core.Upload,
	userID *int64,
) (CourseRegistration, error) {
	if err := nr.Validate(); err != nil {
		return CourseRegistration{}, err
	}
	if receipt == nil {
		return CourseRegistration{}, core.NewValidationError(nil, core.FieldError{
			Field: "paymentReceipt",
			Error: "a payment receipt is required",
		})
	}

	c, err := svc.courses.Get(ctx, nr.CourseID)
	if err != nil && !core.IsNotFound(err) {
		return CourseRegistration{}, errors.Wrap(err, "finding course")
	}
	if err != nil || !c.IsActive {
		return CourseRegistration{}, core.NewValidationError(nil, core.FieldError{Field: "courseId", Error: "unknown course"})
	}

	receiptURL, err := svc.files.Save(ctx, core.UploadKey(receiptsKind, *receipt), *receipt)
	if err != nil {
		return CourseRegistration{}, core.NewStorageError(err)
	}

	now := core.NowFunc()
	cr, err := svc.repo.CreateCourseRegistration(ctx, CourseRegistration{
		CourseID:          c.ID,
		UserID:            userID,
		Name:              nr.Name,
		Email:             nr.Email,
		Phone:             core.StringPtr(nr.Phone),
		ExperienceLevel:   core.StringPtr(nr.ExperienceLevel),
		PreferredSchedule: core.StringPtr(nr.PreferredSchedule),
		Message:           core.StringPtr(nr.Message),
		PaymentReceiptURL: receiptURL,
		Status:            RegistrationPendingVerification,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		svc.discardFile(ctx, receiptURL)
		return CourseRegistration{}, errors.Wrap(err, "creating course registration")
	}

	svc.notifyRegistrationReceived(cr, c)
	return cr, nil
}

func (svc *service) discardFile(ctx context.Context, url string) {
	if err := svc.files.Delete(ctx, url); err != nil {
		svc.logger.Error("discarding orphan upload "+url, err)
	}
}

func (svc *service) QueryAll(ctx context.Context, pf ProjectFilter, rf RegistrationFilter) (Submissions, error) {
	projects, err := svc.repo.QueryProjectSubmissions(ctx, pf)
	if err != nil {
		return Submissions{}, errors.Wrap(err, "querying project submissions")
	}
	registrations, err := svc.repo.QueryCourseRegistrations(ctx, rf)
	if err != nil {
		return Submissions{}, errors.Wrap(err, "querying course registrations")
	}
	return Submissions{ProjectSubmissions: projects, CourseRegistrations: registrations}, nil
}

func (svc *service) QueryProjectSubmissions(ctx context.Context, filter ProjectFilter) ([]ProjectSubmission, error) {
	return svc.repo.QueryProjectSubmissions(ctx, filter)
}

func (svc *service) QueryCourseRegistrations(ctx context.Context, filter RegistrationFilter) ([]CourseRegistration, error) {
	return svc.repo.QueryCourseRegistrations(ctx, filter)
}

func (svc *service) GetProjectSubmission(ctx context.Context, id int64) (ProjectSubmission, error) {
	return svc.repo.GetProjectSubmission(ctx, id)
}

func (svc *service) GetCourseRegistration(ctx context.Context, id int64) (CourseRegistration, error) {
	return svc.repo.GetCourseRegistration(ctx, id)
}

// UpdateProjectStatus overwrites the status; every status may follow every other.
func (svc *service) UpdateProjectStatus(ctx context.Context, data UpdateProjectStatus) (ProjectSubmission, error) {
	if err := data.Validate(); err != nil {
		return ProjectSubmission{}, err
	}
	return svc.repo.SetProjectStatus(ctx, data.ID, data.Status, core.NowFunc())
}

// UpdateRegistrationStatus overwrites the status; every status may follow every other.
// The registrant is emailed when the registration becomes approved or rejected.
func (svc *service) UpdateRegistrationStatus(ctx context.Context, data UpdateRegistrationStatus) (CourseRegistration, error) {
	if err := data.Validate(); err != nil {
		return CourseRegistration{}, err
	}
	prev, err := svc.repo.GetCourseRegistration(ctx, data.ID)
	if err != nil {
		return CourseRegistration{}, err
	}
	cr, err := svc.repo.SetRegistrationStatus(ctx, data.ID, data.Status, core.NowFunc())
	if err != nil {
		return CourseRegistration{}, err
	}

	if cr.Status != prev.Status && (cr.Status == RegistrationApproved || cr.Status == RegistrationRejected) {
		svc.notifyRegistrationStatus(ctx, cr)
	}
	return cr, nil
}

// VerifyPayment approves (verified) or rejects the registration.
func (svc *service) VerifyPayment(ctx context.Context, data VerifyPayment) (CourseRegistration, error) {
	if err := data.Validate(); err != nil {
		return CourseRegistration{}, err
	}
	return svc.UpdateRegistrationStatus(ctx, UpdateRegistrationStatus{
		ID:     data.ID,
		Status: VerifiedStatus(*data.Verified),
	})
}
