package course

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/itsite/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("course")
	ErrScheduleNotFound = core.NewNotFoundError("course schedule")
	ErrIDExists         = errors.New("a course with this id already exists")
)

type (
	Repository interface {
		// CreateCourse returns ErrIDExists if the ID is taken.
		CreateCourse(ctx context.Context, c Course) (Course, error)
		QueryCourses(ctx context.Context, filter QueryFilter) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		// DeleteCourse deletes the course along with its schedule.
		DeleteCourse(ctx context.Context, id string) error

		GetSchedule(ctx context.Context, courseID string) (Schedule, error)
		QuerySchedules(ctx context.Context, courseIDs ...string) ([]Schedule, error)
		UpsertSchedule(ctx context.Context, s Schedule) (Schedule, error)
		DeleteSchedule(ctx context.Context, courseID string) error
	}

	// RegistrationCounter reports how many registrations reference a course.
	RegistrationCounter interface {
		CountCourseRegistrations(ctx context.Context, courseID string) (int, error)
	}

	ServiceInterface interface {
		Query(ctx context.Context, filter QueryFilter) ([]Course, error)
		Get(ctx context.Context, id string) (Course, error)
		Create(ctx context.Context, nc NewCourse) (Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, id string) error

		GetSchedule(ctx context.Context, courseID string) (Schedule, error)
		SchedulesFor(ctx context.Context, courseIDs ...string) ([]Schedule, error)
		SetSchedule(ctx context.Context, courseID string, data ScheduleData) (Schedule, error)
		DeleteSchedule(ctx context.Context, courseID string) error
	}

	service struct {
		repo          Repository
		registrations RegistrationCounter
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, registrations RegistrationCounter) ServiceInterface {
	return &service{repo: repo, registrations: registrations}
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter)
}

func (svc *service) Get(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourse(ctx, core.CleanString(id, true /* lower */))
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}

	now := core.NowFunc()
	c := Course{
		ID:          nc.ID,
		Title:       nc.Title,
		Description: nc.Description,
		Duration:    nc.Duration,
		Mode:        nc.Mode,
		Level:       nc.Level,
		Price:       nc.Price,
		Features:    nc.Features,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nc.IsActive != nil {
		c.IsActive = *nc.IsActive
	}
	if nc.Order != nil {
		c.Order = *nc.Order
	}

	c, err := svc.repo.CreateCourse(ctx, c)
	if err != nil {
		if err == ErrIDExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
		}
		return Course{}, errors.Wrap(err, "creating course")
	}
	return c, nil
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	if err := uc.Validate(); err != nil {
		return Course{}, err
	}
	c, err := svc.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	uc.apply(&c)
	c.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateCourse(ctx, c)
}

// Delete removes a course and its schedule. Courses still referenced by registrations are kept.
func (svc *service) Delete(ctx context.Context, id string) error {
	c, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := svc.registrations.CountCourseRegistrations(ctx, c.ID)
	if err != nil {
		return errors.Wrap(err, "counting course registrations")
	}
	if n > 0 {
		return core.NewValidationError(nil, core.FieldError{
			Field: "id",
			Error: "this course has registrations; deactivate it instead",
		})
	}
	return svc.repo.DeleteCourse(ctx, c.ID)
}

// GetSchedule resolves the schedule of a course. It does not check who is asking.
func (svc *service) GetSchedule(ctx context.Context, courseID string) (Schedule, error) {
	return svc.repo.GetSchedule(ctx, core.CleanString(courseID, true /* lower */))
}

func (svc *service) SchedulesFor(ctx context.Context, courseIDs ...string) ([]Schedule, error) {
	if len(courseIDs) == 0 {
		return []Schedule{}, nil
	}
	return svc.repo.QuerySchedules(ctx, courseIDs...)
}

func (svc *service) SetSchedule(ctx context.Context, courseID string, data ScheduleData) (Schedule, error) {
	if err := data.Validate(); err != nil {
		return Schedule{}, err
	}
	c, err := svc.Get(ctx, courseID)
	if err != nil {
		return Schedule{}, err
	}

	now := core.NowFunc()
	s := Schedule{
		CourseID:    c.ID,
		Title:       data.Title,
		Description: data.Description,
		StartDate:   data.StartDate,
		EndDate:     data.EndDate,
		Duration:    data.Duration,
		Schedule:    data.Schedule,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.UpsertSchedule(ctx, s)
}

func (svc *service) DeleteSchedule(ctx context.Context, courseID string) error {
	return svc.repo.DeleteSchedule(ctx, core.CleanString(courseID, true /* lower */))
}
