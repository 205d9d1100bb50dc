// Package testutil holds fixtures shared by the test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, id, title string, isActive bool, order int) course.Course {
	t.Helper()

	now := core.NowFunc()
	c, err := repo.CreateCourse(context.Background(), course.Course{
		ID:        id,
		Title:     title,
		IsActive:  isActive,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

func CreateSchedule(t *testing.T, repo course.Repository, courseID, title string) course.Schedule {
	t.Helper()

	now := core.NowFunc()
	s, err := repo.UpsertSchedule(context.Background(), course.Schedule{
		CourseID:  courseID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateSchedule() failed: %v", err)
	}
	return s
}

func CreateProjectSubmission(
	t *testing.T,
	repo submission.Repository,
	name, email string,
	status submission.ProjectStatus,
	userID *int64,
) submission.ProjectSubmission {
	t.Helper()

	now := core.NowFunc()
	ps, err := repo.CreateProjectSubmission(context.Background(), submission.ProjectSubmission{
		UserID:      userID,
		Name:        name,
		Email:       email,
		Description: "A website for " + name,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateProjectSubmission() failed: %v", err)
	}
	return ps
}

func CreateCourseRegistration(
	t *testing.T,
	repo submission.Repository,
	courseID, name, email string,
	status submission.RegistrationStatus,
	userID *int64,
) submission.CourseRegistration {
	t.Helper()

	now := core.NowFunc()
	cr, err := repo.CreateCourseRegistration(context.Background(), submission.CourseRegistration{
		CourseID:          courseID,
		UserID:            userID,
		Name:              name,
		Email:             email,
		PaymentReceiptURL: "/uploads/receipts/" + name + ".pdf",
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		t.Fatalf("CreateCourseRegistration() failed: %v", err)
	}
	return cr
}

// Int64Ptr returns a pointer to i.
func Int64Ptr(i int64) *int64 { return &i }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
