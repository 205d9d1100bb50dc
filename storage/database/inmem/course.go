package inmemdb

import (
	"context"

	"github.com/trezcool/itsite/core/course"
)

type courseRepository struct {
	courses   *table[course.Course]
	schedules *table[course.Schedule]
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{courses: db.courses, schedules: db.schedules}
}

func copyCourse(c course.Course) course.Course {
	c.Features = cloneStrings(c.Features)
	return c
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	if repo.courses.index(func(row course.Course) bool { return row.ID == c.ID }) >= 0 {
		return course.Course{}, course.ErrIDExists
	}
	c = copyCourse(c)
	repo.courses.rows = append(repo.courses.rows, c)
	return copyCourse(c), nil
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	rows := repo.courses.filter(func(c course.Course) bool {
		return filter.IsActive == nil || c.IsActive == *filter.IsActive
	})
	for i := range rows {
		rows[i] = copyCourse(rows[i])
	}
	sortByOrder(rows, func(c course.Course) int { return c.Order })
	return rows, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	c, ok := repo.courses.get(func(c course.Course) bool { return c.ID == id })
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return copyCourse(c), nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, c course.Course) (course.Course, error) {
	c = copyCourse(c)
	if !repo.courses.replace(func(row course.Course) bool { return row.ID == c.ID }, c) {
		return course.Course{}, course.ErrNotFound
	}
	return copyCourse(c), nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	if repo.courses.remove(func(c course.Course) bool { return c.ID == id }) == 0 {
		return course.ErrNotFound
	}
	repo.schedules.remove(func(s course.Schedule) bool { return s.CourseID == id })
	return nil
}

func (repo *courseRepository) GetSchedule(_ context.Context, courseID string) (course.Schedule, error) {
	s, ok := repo.schedules.get(func(s course.Schedule) bool { return s.CourseID == courseID })
	if !ok {
		return course.Schedule{}, course.ErrScheduleNotFound
	}
	return s, nil
}

func (repo *courseRepository) QuerySchedules(_ context.Context, courseIDs ...string) ([]course.Schedule, error) {
	repo.schedules.RLock()
	defer repo.schedules.RUnlock()

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	return repo.schedules.filter(func(s course.Schedule) bool { return wanted[s.CourseID] }), nil
}

// UpsertSchedule keeps the original creation time when replacing a schedule.
func (repo *courseRepository) UpsertSchedule(_ context.Context, s course.Schedule) (course.Schedule, error) {
	repo.schedules.Lock()
	defer repo.schedules.Unlock()

	if i := repo.schedules.index(func(row course.Schedule) bool { return row.CourseID == s.CourseID }); i >= 0 {
		s.CreatedAt = repo.schedules.rows[i].CreatedAt
		repo.schedules.rows[i] = s
		return s, nil
	}
	repo.schedules.rows = append(repo.schedules.rows, s)
	return s, nil
}

func (repo *courseRepository) DeleteSchedule(_ context.Context, courseID string) error {
	if repo.schedules.remove(func(s course.Schedule) bool { return s.CourseID == courseID }) == 0 {
		return course.ErrScheduleNotFound
	}
	return nil
}
