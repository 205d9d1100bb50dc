package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/itsite/core/submission"
)

type submissionRepository struct {
	projects      *table[submission.ProjectSubmission]
	registrations *table[submission.CourseRegistration]
}

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{projects: db.projects, registrations: db.registrations}
}

func (repo *submissionRepository) CreateProjectSubmission(
	_ context.Context,
	ps submission.ProjectSubmission,
) (submission.ProjectSubmission, error) {
	repo.projects.Lock()
	defer repo.projects.Unlock()

	ps.ID = repo.projects.nextID()
	repo.projects.rows = append(repo.projects.rows, ps)
	return ps, nil
}

func (repo *submissionRepository) QueryProjectSubmissions(
	_ context.Context,
	filter submission.ProjectFilter,
) ([]submission.ProjectSubmission, error) {
	repo.projects.RLock()
	defer repo.projects.RUnlock()

	rows := repo.projects.filter(func(ps submission.ProjectSubmission) bool {
		if filter.Status != "" && ps.Status != filter.Status {
			return false
		}
		if filter.UserID != nil && (ps.UserID == nil || *ps.UserID != *filter.UserID) {
			return false
		}
		return true
	})
	newestFirst(rows)
	return rows, nil
}

func (repo *submissionRepository) GetProjectSubmission(_ context.Context, id int64) (submission.ProjectSubmission, error) {
	ps, ok := repo.projects.get(func(ps submission.ProjectSubmission) bool { return ps.ID == id })
	if !ok {
		return submission.ProjectSubmission{}, submission.ErrProjectNotFound
	}
	return ps, nil
}

func (repo *submissionRepository) SetProjectStatus(
	_ context.Context,
	id int64,
	status submission.ProjectStatus,
	at time.Time,
) (submission.ProjectSubmission, error) {
	repo.projects.Lock()
	defer repo.projects.Unlock()

	i := repo.projects.index(func(ps submission.ProjectSubmission) bool { return ps.ID == id })
	if i < 0 {
		return submission.ProjectSubmission{}, submission.ErrProjectNotFound
	}
	repo.projects.rows[i].Status = status
	repo.projects.rows[i].UpdatedAt = at
	return repo.projects.rows[i], nil
}

func (repo *submissionRepository) CreateCourseRegistration(
	_ context.Context,
	cr submission.CourseRegistration,
) (submission.CourseRegistration, error) {
	repo.registrations.Lock()
	defer repo.registrations.Unlock()

	cr.ID = repo.registrations.nextID()
	repo.registrations.rows = append(repo.registrations.rows, cr)
	return cr, nil
}

func (repo *submissionRepository) QueryCourseRegistrations(
	_ context.Context,
	filter submission.RegistrationFilter,
) ([]submission.CourseRegistration, error) {
	repo.registrations.RLock()
	defer repo.registrations.RUnlock()

	rows := repo.registrations.filter(func(cr submission.CourseRegistration) bool {
		if filter.Status != "" && cr.Status != filter.Status {
			return false
		}
		if filter.CourseID != "" && cr.CourseID != filter.CourseID {
			return false
		}
		if filter.UserID != nil && (cr.UserID == nil || *cr.UserID != *filter.UserID) {
			return false
		}
		return true
	})
	newestFirst(rows)
	return rows, nil
}

func (repo *submissionRepository) GetCourseRegistration(_ context.Context, id int64) (submission.CourseRegistration, error) {
	cr, ok := repo.registrations.get(func(cr submission.CourseRegistration) bool { return cr.ID == id })
	if !ok {
		return submission.CourseRegistration{}, submission.ErrRegistrationNotFound
	}
	return cr, nil
}

func (repo *submissionRepository) SetRegistrationStatus(
	_ context.Context,
	id int64,
	status submission.RegistrationStatus,
	at time.Time,
) (submission.CourseRegistration, error) {
	repo.registrations.Lock()
	defer repo.registrations.Unlock()

	i := repo.registrations.index(func(cr submission.CourseRegistration) bool { return cr.ID == id })
	if i < 0 {
		return submission.CourseRegistration{}, submission.ErrRegistrationNotFound
	}
	repo.registrations.rows[i].Status = status
	repo.registrations.rows[i].UpdatedAt = at
	return repo.registrations.rows[i], nil
}

func (repo *submissionRepository) CountCourseRegistrations(_ context.Context, courseID string) (int, error) {
	repo.registrations.RLock()
	defer repo.registrations.RUnlock()

	rows := repo.registrations.filter(func(cr submission.CourseRegistration) bool { return cr.CourseID == courseID })
	return len(rows), nil
}
