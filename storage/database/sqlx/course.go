package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/itsite/core/course"
)

var courseColumns = []string{
	"id", "title", "description", "duration", "mode", "level", "price", "features",
	"is_active", "display_order", "created_at", "updated_at",
}

var scheduleColumns = []string{
	"course_id", "title", "description", "start_date", "end_date", "duration", "schedule", "created_at", "updated_at",
}

type courseRow struct {
	ID          string      `db:"id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	Duration    null.String `db:"duration"`
	Mode        null.String `db:"mode"`
	Level       null.String `db:"level"`
	Price       null.String `db:"price"`
	Features    null.String `db:"features"`
	IsActive    bool        `db:"is_active"`
	Order       int         `db:"display_order"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r courseRow) toCourse() (course.Course, error) {
	features, err := decodeStrings(r.Features)
	if err != nil {
		return course.Course{}, errors.Wrapf(err, "decoding features of course %s", r.ID)
	}
	return course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.Ptr(),
		Duration:    r.Duration.Ptr(),
		Mode:        r.Mode.Ptr(),
		Level:       r.Level.Ptr(),
		Price:       r.Price.Ptr(),
		Features:    features,
		IsActive:    r.IsActive,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}, nil
}

type scheduleRow struct {
	CourseID    string      `db:"course_id"`
	Title       string      `db:"title"`
	Description null.String `db:"description"`
	StartDate   null.Time   `db:"start_date"`
	EndDate     null.Time   `db:"end_date"`
	Duration    null.String `db:"duration"`
	Schedule    null.String `db:"schedule"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func utcPtr(nt null.Time) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func (r scheduleRow) toSchedule() course.Schedule {
	return course.Schedule{
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description.Ptr(),
		StartDate:   utcPtr(r.StartDate),
		EndDate:     utcPtr(r.EndDate),
		Duration:    r.Duration.Ptr(),
		Schedule:    r.Schedule.Ptr(),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	features, err := encodeStrings(c.Features)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "encoding features")
	}
	_, err = exec(ctx, repo.db, repo.db.sb.Insert("courses").
		Columns(courseColumns...).
		Values(
			c.ID,
			c.Title,
			null.StringFromPtr(c.Description),
			null.StringFromPtr(c.Duration),
			null.StringFromPtr(c.Mode),
			null.StringFromPtr(c.Level),
			null.StringFromPtr(c.Price),
			features,
			c.IsActive,
			c.Order,
			c.CreatedAt,
			c.UpdatedAt,
		))
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrIDExists
		}
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter) ([]course.Course, error) {
	q := repo.db.sb.Select(courseColumns...).From("courses").OrderBy("display_order ASC", "created_at ASC", "id ASC")
	if filter.IsActive != nil {
		q = q.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	var rows []courseRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		c, err := r.toCourse()
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var r courseRow
	q := repo.db.sb.Select(courseColumns...).From("courses").Where(squirrel.Eq{"id": id})
	if err := repo.db.getRow(ctx, &r, q); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "selecting course")
	}
	return r.toCourse()
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	features, err := encodeStrings(c.Features)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "encoding features")
	}
	n, err := exec(ctx, repo.db, repo.db.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":         c.Title,
			"description":   null.StringFromPtr(c.Description),
			"duration":      null.StringFromPtr(c.Duration),
			"mode":          null.StringFromPtr(c.Mode),
			"level":         null.StringFromPtr(c.Level),
			"price":         null.StringFromPtr(c.Price),
			"features":      features,
			"is_active":     c.IsActive,
			"display_order": c.Order,
			"updated_at":    c.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = exec(ctx, tx, repo.db.sb.Delete("course_schedules").Where(squirrel.Eq{"course_id": id})); err != nil {
		return errors.Wrap(err, "deleting course schedule")
	}
	n, err := exec(ctx, tx, repo.db.sb.Delete("courses").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n == 0 {
		return course.ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "committing course deletion")
}

func (repo *courseRepository) GetSchedule(ctx context.Context, courseID string) (course.Schedule, error) {
	var r scheduleRow
	q := repo.db.sb.Select(scheduleColumns...).From("course_schedules").Where(squirrel.Eq{"course_id": courseID})
	if err := repo.db.getRow(ctx, &r, q); err != nil {
		if err == sql.ErrNoRows {
			return course.Schedule{}, course.ErrScheduleNotFound
		}
		return course.Schedule{}, errors.Wrap(err, "selecting course schedule")
	}
	return r.toSchedule(), nil
}

func (repo *courseRepository) QuerySchedules(ctx context.Context, courseIDs ...string) ([]course.Schedule, error) {
	q := repo.db.sb.Select(scheduleColumns...).From("course_schedules").
		Where(squirrel.Eq{"course_id": courseIDs}).
		OrderBy("start_date ASC", "course_id ASC")

	var rows []scheduleRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting course schedules")
	}
	schedules := make([]course.Schedule, 0, len(rows))
	for _, r := range rows {
		schedules = append(schedules, r.toSchedule())
	}
	return schedules, nil
}

// UpsertSchedule keeps the original creation time when replacing a schedule.
func (repo *courseRepository) UpsertSchedule(ctx context.Context, s course.Schedule) (course.Schedule, error) {
	_, err := exec(ctx, repo.db, repo.db.sb.Insert("course_schedules").
		Columns(scheduleColumns...).
		Values(
			s.CourseID,
			s.Title,
			null.StringFromPtr(s.Description),
			null.TimeFromPtr(s.StartDate),
			null.TimeFromPtr(s.EndDate),
			null.StringFromPtr(s.Duration),
			null.StringFromPtr(s.Schedule),
			s.CreatedAt,
			s.UpdatedAt,
		).
		Suffix(`ON CONFLICT (course_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			duration = excluded.duration,
			schedule = excluded.schedule,
			updated_at = excluded.updated_at`))
	if err != nil {
		return course.Schedule{}, errors.Wrap(err, "upserting course schedule")
	}
	return repo.GetSchedule(ctx, s.CourseID)
}

func (repo *courseRepository) DeleteSchedule(ctx context.Context, courseID string) error {
	n, err := exec(ctx, repo.db, repo.db.sb.Delete("course_schedules").Where(squirrel.Eq{"course_id": courseID}))
	if err != nil {
		return errors.Wrap(err, "deleting course schedule")
	}
	if n == 0 {
		return course.ErrScheduleNotFound
	}
	return nil
}
