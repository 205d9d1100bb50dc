package course_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	inmemdb "github.com/trezcool/itsite/storage/database/inmem"
	"github.com/trezcool/itsite/tests"
)

func setup() (course.ServiceInterface, submission.Repository) {
	db := inmemdb.Open()
	subs := inmemdb.NewSubmissionRepository(db)
	return course.NewService(inmemdb.NewCourseRepository(db), subs), subs
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	c, err := svc.Create(ctx, course.NewCourse{ID: "Go-Basics", Title: " Go Basics "})
	require.NoError(t, err)
	assert.Equal(t, "go-basics", c.ID)
	assert.Equal(t, "Go Basics", c.Title)
	assert.True(t, c.IsActive)
	assert.Equal(t, 0, c.Order)
	assert.Nil(t, c.Features)

	derived, err := svc.Create(ctx, course.NewCourse{Title: "Cloud Ops", Features: []string{}})
	require.NoError(t, err)
	assert.NotEmpty(t, derived.ID)
	assert.Equal(t, []string{}, derived.Features, "empty and absent features are distinct")

	_, err = svc.Create(ctx, course.NewCourse{ID: "go-basics", Title: "Again"})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, course.NewCourse{ID: "go-basics-2"})
	assert.Error(t, err, "title is required")
}

func TestService_UpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	c, err := svc.Create(ctx, course.NewCourse{
		ID:       "go-basics",
		Title:    "Go Basics",
		Price:    strPtr("$100"),
		Features: []string{"Goroutines"},
		Order:    func() *int { i := 3; return &i }(),
	})
	require.NoError(t, err)

	got, err := svc.Update(ctx, c.ID, course.UpdateCourse{Level: strPtr("beginner")})
	require.NoError(t, err)
	assert.Equal(t, "beginner", *got.Level)
	assert.Equal(t, "$100", *got.Price)
	assert.Equal(t, []string{"Goroutines"}, got.Features)
	assert.Equal(t, 3, got.Order)
	assert.True(t, got.IsActive)

	_, err = svc.Update(ctx, "nope", course.UpdateCourse{Level: strPtr("x")})
	assert.True(t, core.IsNotFound(err))
}

func TestService_UpdateFeatures(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	c, err := svc.Create(ctx, course.NewCourse{ID: "go-basics", Title: "Go Basics", Features: []string{"a"}})
	require.NoError(t, err)

	got, err := svc.Update(ctx, c.ID, course.UpdateCourse{Features: json.RawMessage(`["b","c"]`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, got.Features)

	got, err = svc.Update(ctx, c.ID, course.UpdateCourse{Features: json.RawMessage(`[]`)})
	require.NoError(t, err)
	assert.NotNil(t, got.Features)
	assert.Empty(t, got.Features)

	got, err = svc.Update(ctx, c.ID, course.UpdateCourse{Features: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Nil(t, got.Features)

	got, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Features)

	var vErr *core.ValidationError
	_, err = svc.Update(ctx, c.ID, course.UpdateCourse{Features: json.RawMessage(`["ok", "  "]`)})
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.Update(ctx, c.ID, course.UpdateCourse{Features: json.RawMessage(`"a"`)})
	assert.ErrorAs(t, err, &vErr)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, subs := setup()

	_, err := svc.Create(ctx, course.NewCourse{ID: "go-basics", Title: "Go Basics"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, course.NewCourse{ID: "taken", Title: "Taken"})
	require.NoError(t, err)
	_, err = svc.SetSchedule(ctx, "go-basics", course.ScheduleData{Title: "Spring"})
	require.NoError(t, err)
	testutil.CreateCourseRegistration(t, subs, "taken", "Sam", "sam@example.com", submission.RegistrationApproved, nil)

	require.NoError(t, svc.Delete(ctx, "go-basics"))
	_, err = svc.Get(ctx, "go-basics")
	assert.True(t, core.IsNotFound(err))
	_, err = svc.GetSchedule(ctx, "go-basics")
	assert.True(t, core.IsNotFound(err), "the schedule goes with its course")
	assert.True(t, core.IsNotFound(svc.Delete(ctx, "go-basics")))

	err = svc.Delete(ctx, "taken")
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr, "courses with registrations are kept")
	_, err = svc.Get(ctx, "taken")
	assert.NoError(t, err)
}

func TestService_Schedules(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup()

	for _, id := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, course.NewCourse{ID: id, Title: "Course " + id})
		require.NoError(t, err)
	}

	start := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	_, err := svc.SetSchedule(ctx, "a", course.ScheduleData{Title: "A", StartDate: &end, EndDate: &start})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr, "end before start")

	first, err := svc.SetSchedule(ctx, "a", course.ScheduleData{Title: "A", StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	replaced, err := svc.SetSchedule(ctx, "A", course.ScheduleData{Title: "A again"})
	require.NoError(t, err)
	assert.Equal(t, "A again", replaced.Title)
	assert.Nil(t, replaced.StartDate)
	assert.Equal(t, first.CreatedAt, replaced.CreatedAt, "replacing keeps the creation time")

	_, err = svc.SetSchedule(ctx, "b", course.ScheduleData{Title: "B"})
	require.NoError(t, err)
	_, err = svc.SetSchedule(ctx, "nope", course.ScheduleData{Title: "Nope"})
	assert.True(t, core.IsNotFound(err))

	schedules, err := svc.SchedulesFor(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Len(t, schedules, 2)

	none, err := svc.SchedulesFor(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	require.NoError(t, svc.DeleteSchedule(ctx, "b"))
	assert.True(t, core.IsNotFound(svc.DeleteSchedule(ctx, "b")))
	_, err = svc.Get(ctx, "b")
	assert.NoError(t, err)
}
