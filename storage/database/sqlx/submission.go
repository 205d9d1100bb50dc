package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/itsite/core/submission"
)

var projectColumns = []string{
	"id", "user_id", "name", "email", "company", "project_type", "budget_range", "timeline",
	"description", "file_url", "status", "created_at", "updated_at",
}

var registrationColumns = []string{
	"id", "course_id", "user_id", "name", "email", "phone", "experience_level", "preferred_schedule",
	"message", "payment_receipt_url", "status", "created_at", "updated_at",
}

type projectRow struct {
	ID          int64       `db:"id"`
	UserID      null.Int64  `db:"user_id"`
	Name        string      `db:"name"`
	Email       string      `db:"email"`
	Company     null.String `db:"company"`
	ProjectType null.String `db:"project_type"`
	BudgetRange null.String `db:"budget_range"`
	Timeline    null.String `db:"timeline"`
	Description string      `db:"description"`
	FileURL     null.String `db:"file_url"`
	Status      string      `db:"status"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r projectRow) toProjectSubmission() submission.ProjectSubmission {
	return submission.ProjectSubmission{
		ID:          r.ID,
		UserID:      r.UserID.Ptr(),
		Name:        r.Name,
		Email:       r.Email,
		Company:     r.Company.Ptr(),
		ProjectType: r.ProjectType.Ptr(),
		BudgetRange: r.BudgetRange.Ptr(),
		Timeline:    r.Timeline.Ptr(),
		Description: r.Description,
		FileURL:     r.FileURL.Ptr(),
		Status:      submission.ProjectStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type registrationRow struct {
	ID                int64       `db:"id"`
	CourseID          string      `db:"course_id"`
	UserID            null.Int64  `db:"user_id"`
	Name              string      `db:"name"`
	Email             string      `db:"email"`
	Phone             null.String `db:"phone"`
	ExperienceLevel   null.String `db:"experience_level"`
	PreferredSchedule null.String `db:"preferred_schedule"`
	Message           null.String `db:"message"`
	PaymentReceiptURL string      `db:"payment_receipt_url"`
	Status            string      `db:"status"`
	CreatedAt         time.Time   `db:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at"`
}

func (r registrationRow) toCourseRegistration() submission.CourseRegistration {
	return submission.CourseRegistration{
		ID:                r.ID,
		CourseID:          r.CourseID,
		UserID:            r.UserID.Ptr(),
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone.Ptr(),
		ExperienceLevel:   r.ExperienceLevel.Ptr(),
		PreferredSchedule: r.PreferredSchedule.Ptr(),
		Message:           r.Message.Ptr(),
		PaymentReceiptURL: r.PaymentReceiptURL,
		Status:            submission.RegistrationStatus(r.Status),
		CreatedAt:         r.CreatedAt.UTC(),
		UpdatedAt:         r.UpdatedAt.UTC(),
	}
}

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateProjectSubmission(
	ctx context.Context,
	ps submission.ProjectSubmission,
) (submission.ProjectSubmission, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("project_submissions").
		Columns(projectColumns[1:]...).
		Values(
			null.Int64FromPtr(ps.UserID),
			ps.Name,
			ps.Email,
			null.StringFromPtr(ps.Company),
			null.StringFromPtr(ps.ProjectType),
			null.StringFromPtr(ps.BudgetRange),
			null.StringFromPtr(ps.Timeline),
			ps.Description,
			null.StringFromPtr(ps.FileURL),
			string(ps.Status),
			ps.CreatedAt,
			ps.UpdatedAt,
		))
	if err != nil {
		return submission.ProjectSubmission{}, errors.Wrap(err, "inserting project submission")
	}
	ps.ID = id
	return ps, nil
}

func (repo *submissionRepository) QueryProjectSubmissions(
	ctx context.Context,
	filter submission.ProjectFilter,
) ([]submission.ProjectSubmission, error) {
	q := repo.db.sb.Select(projectColumns...).From("project_submissions").OrderBy("created_at DESC", "id DESC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	var rows []projectRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting project submissions")
	}
	subs := make([]submission.ProjectSubmission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toProjectSubmission())
	}
	return subs, nil
}

func (repo *submissionRepository) GetProjectSubmission(ctx context.Context, id int64) (submission.ProjectSubmission, error) {
	var r projectRow
	q := repo.db.sb.Select(projectColumns...).From("project_submissions").Where(squirrel.Eq{"id": id})
	if err := repo.db.getRow(ctx, &r, q); err != nil {
		if err == sql.ErrNoRows {
			return submission.ProjectSubmission{}, submission.ErrProjectNotFound
		}
		return submission.ProjectSubmission{}, errors.Wrap(err, "selecting project submission")
	}
	return r.toProjectSubmission(), nil
}

func (repo *submissionRepository) SetProjectStatus(
	ctx context.Context,
	id int64,
	status submission.ProjectStatus,
	at time.Time,
) (submission.ProjectSubmission, error) {
	n, err := exec(ctx, repo.db, repo.db.sb.Update("project_submissions").
		Set("status", string(status)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return submission.ProjectSubmission{}, errors.Wrap(err, "updating project status")
	}
	if n == 0 {
		return submission.ProjectSubmission{}, submission.ErrProjectNotFound
	}
	return repo.GetProjectSubmission(ctx, id)
}

func (repo *submissionRepository) CreateCourseRegistration(
	ctx context.Context,
	cr submission.CourseRegistration,
) (submission.CourseRegistration, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("course_registrations").
		Columns(registrationColumns[1:]...).
		Values(
			cr.CourseID,
			null.Int64FromPtr(cr.UserID),
			cr.Name,
			cr.Email,
			null.StringFromPtr(cr.Phone),
			null.StringFromPtr(cr.ExperienceLevel),
			null.StringFromPtr(cr.PreferredSchedule),
			null.StringFromPtr(cr.Message),
			cr.PaymentReceiptURL,
			string(cr.Status),
			cr.CreatedAt,
			cr.UpdatedAt,
		))
	if err != nil {
		return submission.CourseRegistration{}, errors.Wrap(err, "inserting course registration")
	}
	cr.ID = id
	return cr, nil
}

func (repo *submissionRepository) QueryCourseRegistrations(
	ctx context.Context,
	filter submission.RegistrationFilter,
) ([]submission.CourseRegistration, error) {
	q := repo.db.sb.Select(registrationColumns...).From("course_registrations").OrderBy("created_at DESC", "id DESC")
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.CourseID != "" {
		q = q.Where(squirrel.Eq{"course_id": filter.CourseID})
	}
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}

	var rows []registrationRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting course registrations")
	}
	regs := make([]submission.CourseRegistration, 0, len(rows))
	for _, r := range rows {
		regs = append(regs, r.toCourseRegistration())
	}
	return regs, nil
}

func (repo *submissionRepository) GetCourseRegistration(ctx context.Context, id int64) (submission.CourseRegistration, error) {
	var r registrationRow
	q := repo.db.sb.Select(registrationColumns...).From("course_registrations").Where(squirrel.Eq{"id": id})
	if err := repo.db.getRow(ctx, &r, q); err != nil {
		if err == sql.ErrNoRows {
			return submission.CourseRegistration{}, submission.ErrRegistrationNotFound
		}
		return submission.CourseRegistration{}, errors.Wrap(err, "selecting course registration")
	}
	return r.toCourseRegistration(), nil
}

func (repo *submissionRepository) SetRegistrationStatus(
	ctx context.Context,
	id int64,
	status submission.RegistrationStatus,
	at time.Time,
) (submission.CourseRegistration, error) {
	n, err := exec(ctx, repo.db, repo.db.sb.Update("course_registrations").
		Set("status", string(status)).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return submission.CourseRegistration{}, errors.Wrap(err, "updating registration status")
	}
	if n == 0 {
		return submission.CourseRegistration{}, submission.ErrRegistrationNotFound
	}
	return repo.GetCourseRegistration(ctx, id)
}

func (repo *submissionRepository) CountCourseRegistrations(ctx context.Context, courseID string) (int, error) {
	var n int
	q := repo.db.sb.Select("COUNT(*)").From("course_registrations").Where(squirrel.Eq{"course_id": courseID})
	if err := repo.db.getRow(ctx, &n, q); err != nil {
		return 0, errors.Wrap(err, "counting course registrations")
	}
	return n, nil
}
