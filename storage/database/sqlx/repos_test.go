package sqlxrepos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/course"
	"github.com/trezcool/itsite/core/submission"
	"github.com/trezcool/itsite/core/user"
	"github.com/trezcool/itsite/storage/database"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	conf := core.NewTestConfig()
	conf.Database.Engine = database.SQLite3
	conf.Database.Path = ":memory:"

	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db.DB, database.SQLite3))
	return New(db)
}

func TestNew_placeholders(t *testing.T) {
	pg, err := sqlx.Open(database.Postgres, "postgres://localhost/itsite?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	query, _, err := New(pg).sb.Select("id").From("courses").Where(squirrel.Eq{"id": "a"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM courses WHERE id = $1", query)

	query, _, err = openTestDB(t).sb.Select("id").From("courses").Where(squirrel.Eq{"id": "a"}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM courses WHERE id = ?", query)
}

func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

func createCourse(t *testing.T, repo course.Repository, id string, features []string) course.Course {
	t.Helper()
	ts := now()
	c, err := repo.CreateCourse(context.Background(), course.Course{
		ID:        id,
		Title:     "Course " + id,
		Features:  features,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	require.NoError(t, err)
	return c
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	ts := now()
	usr, err := repo.CreateUser(ctx, user.User{
		Name:         "Abel",
		Email:        "abel@test.test",
		Role:         user.RoleUser,
		IsActive:     true,
		PasswordHash: []byte("hash"),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	})
	require.NoError(t, err)
	assert.NotZero(t, usr.ID)

	_, err = repo.CreateUser(ctx, user.User{Name: "Dup", Email: "abel@test.test", Role: user.RoleUser, PasswordHash: []byte("h"), CreatedAt: ts, UpdatedAt: ts})
	assert.Equal(t, user.ErrEmailExists, err)

	assert.Equal(t, user.ErrEmailExists, repo.CheckEmailUniqueness(ctx, "abel@test.test"))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "abel@test.test", usr.ID))

	got, err := repo.GetUser(ctx, user.GetFilter{Email: "abel@test.test"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.True(t, got.LastLogin.IsZero())

	got.LastLogin = ts
	got.Role = user.RoleAdmin
	_, err = repo.UpdateUser(ctx, got)
	require.NoError(t, err)

	got, err = repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, got.Role)
	assert.True(t, got.LastLogin.Equal(ts))

	admins, err := repo.QueryUsers(ctx, &user.QueryFilter{Role: user.RoleAdmin, Search: "abe"})
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	_, err = repo.GetUser(ctx, user.GetFilter{ID: 404})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestCourseRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(openTestDB(t))

	withNil := createCourse(t, repo, "no-features", nil)
	withEmpty := createCourse(t, repo, "empty-features", []string{})
	createCourse(t, repo, "frontend-web-dev", []string{"HTML", "CSS", "React"})

	_, err := repo.CreateCourse(ctx, course.Course{ID: "frontend-web-dev", Title: "Dup", CreatedAt: now(), UpdatedAt: now()})
	assert.Equal(t, course.ErrIDExists, err)

	// nil & empty features stay distinct
	got, err := repo.GetCourse(ctx, withNil.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Features)
	got, err = repo.GetCourse(ctx, withEmpty.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Features)
	assert.Empty(t, got.Features)
	got, err = repo.GetCourse(ctx, "frontend-web-dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"HTML", "CSS", "React"}, got.Features)

	// schedule upsert & cascade
	start := now()
	end := start.Add(30 * 24 * time.Hour)
	s, err := repo.UpsertSchedule(ctx, course.Schedule{
		CourseID: "frontend-web-dev", Title: "Cohort 1", StartDate: &start, EndDate: &end, CreatedAt: start, UpdatedAt: start,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cohort 1", s.Title)

	later := start.Add(time.Hour)
	s, err = repo.UpsertSchedule(ctx, course.Schedule{CourseID: "frontend-web-dev", Title: "Cohort 2", CreatedAt: later, UpdatedAt: later})
	require.NoError(t, err)
	assert.Equal(t, "Cohort 2", s.Title)
	assert.Nil(t, s.StartDate)
	assert.True(t, s.CreatedAt.Equal(start), "creation time is kept")

	schedules, err := repo.QuerySchedules(ctx, "frontend-web-dev", "no-features")
	require.NoError(t, err)
	assert.Len(t, schedules, 1)

	require.NoError(t, repo.DeleteCourse(ctx, "frontend-web-dev"))
	_, err = repo.GetCourse(ctx, "frontend-web-dev")
	assert.Equal(t, course.ErrNotFound, err)
	_, err = repo.GetSchedule(ctx, "frontend-web-dev")
	assert.Equal(t, course.ErrScheduleNotFound, err)
	assert.Equal(t, course.ErrNotFound, repo.DeleteCourse(ctx, "frontend-web-dev"))
}

func TestSubmissionRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createCourse(t, NewCourseRepository(db), "frontend-web-dev", nil)
	repo := NewSubmissionRepository(db)

	ts := now()
	ps, err := repo.CreateProjectSubmission(ctx, submission.ProjectSubmission{
		Name: "Abel", Email: "a@x.com", Description: "A website", Status: submission.ProjectPending, CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)

	ps, err = repo.SetProjectStatus(ctx, ps.ID, submission.ProjectCompleted, ts.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, submission.ProjectCompleted, ps.Status)
	assert.Nil(t, ps.Company)

	_, err = repo.SetProjectStatus(ctx, 404, submission.ProjectCompleted, ts)
	assert.Equal(t, submission.ErrProjectNotFound, err)

	usr, err := NewUserRepository(db).CreateUser(ctx, user.User{
		Name: "Abel", Email: "a@x.com", Role: user.RoleUser, IsActive: true, PasswordHash: []byte("h"), CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)
	userID := usr.ID
	cr, err := repo.CreateCourseRegistration(ctx, submission.CourseRegistration{
		CourseID: "frontend-web-dev", UserID: &userID, Name: "Abel", Email: "a@x.com",
		PaymentReceiptURL: "r.pdf", Status: submission.RegistrationPendingVerification, CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)

	cr, err = repo.SetRegistrationStatus(ctx, cr.ID, submission.RegistrationApproved, ts)
	require.NoError(t, err)
	assert.Equal(t, submission.RegistrationApproved, cr.Status)

	n, err := repo.CountCourseRegistrations(ctx, "frontend-web-dev")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	mine, err := repo.QueryCourseRegistrations(ctx, submission.RegistrationFilter{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, userID, *mine[0].UserID)

	other := userID + 1
	theirs, err := repo.QueryCourseRegistrations(ctx, submission.RegistrationFilter{UserID: &other})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestContentRepositoryOrdering(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(openTestDB(t))

	ts := now()
	for _, l := range []content.List{
		{Type: content.ListFAQ, Title: "b", Content: "x", IsActive: true, Order: 1},
		{Type: content.ListFAQ, Title: "c", Content: "x", IsActive: true, Order: 0},
		{Type: content.ListFAQ, Title: "d", Content: "x", IsActive: true, Order: 1},
		{Type: content.ListFAQ, Title: "a", Content: "x", IsActive: true, Order: 0},
		{Type: content.ListFeature, Title: "z", Content: "x", IsActive: false, Order: 0},
	} {
		l.CreatedAt, l.UpdatedAt = ts, ts
		_, err := repo.CreateList(ctx, l)
		require.NoError(t, err)
	}

	lists, err := repo.QueryLists(ctx, content.ListFilter{Type: content.ListFAQ})
	require.NoError(t, err)
	var titles []string
	for _, l := range lists {
		titles = append(titles, l.Title)
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, titles)

	active := true
	lists, err = repo.QueryLists(ctx, content.ListFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Len(t, lists, 4)
}

func TestContentCardMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(openTestDB(t))

	ts := now()
	card, err := repo.CreateCard(ctx, content.Card{
		Type:      content.CardProject,
		Title:     "Shop",
		Metadata:  json.RawMessage(`{"technologies":["Go","React"],"client":"ACME"}`),
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	require.NoError(t, err)

	got, err := repo.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"technologies":["Go","React"],"client":"ACME"}`, string(got.Metadata))

	pc, ok := got.Variant().(content.ProjectCard)
	require.True(t, ok)
	require.NotNil(t, pc.Details)
	assert.Equal(t, []string{"Go", "React"}, pc.Details.Technologies)

	// no metadata stays absent
	plain, err := repo.CreateCard(ctx, content.Card{Type: content.CardService, Title: "Web", IsActive: true, CreatedAt: ts, UpdatedAt: ts})
	require.NoError(t, err)
	got, err = repo.GetCard(ctx, plain.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Metadata)

	require.NoError(t, repo.DeleteCard(ctx, plain.ID))
	_, err = repo.GetCard(ctx, plain.ID)
	assert.Equal(t, content.ErrCardNotFound, err)
	assert.Equal(t, content.ErrCardNotFound, repo.DeleteCard(ctx, plain.ID))
}

func TestContentRepositoryTeamAndBlog(t *testing.T) {
	ctx := context.Background()
	repo := NewContentRepository(openTestDB(t))

	ts := now()
	owner, err := repo.CreateTeamMember(ctx, content.TeamMember{Name: "Ada", Role: "CEO", Owner: true, IsActive: true, CreatedAt: ts, UpdatedAt: ts})
	require.NoError(t, err)
	_, err = repo.CreateTeamMember(ctx, content.TeamMember{Name: "Bob", Role: "Dev", IsActive: true, CreatedAt: ts, UpdatedAt: ts})
	require.NoError(t, err)

	yes := true
	owners, err := repo.QueryTeamMembers(ctx, content.TeamFilter{Owner: &yes})
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, owner.ID, owners[0].ID)

	minutes := 5
	post, err := repo.CreateBlogPost(ctx, content.BlogPost{
		Title: "Hello", LinkURL: "https://blog.test/hello", MinutesToRead: &minutes, IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	})
	require.NoError(t, err)

	post.Title = "Hello, world"
	post.MinutesToRead = nil
	_, err = repo.UpdateBlogPost(ctx, post)
	require.NoError(t, err)

	got, err := repo.GetBlogPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got.Title)
	assert.Nil(t, got.MinutesToRead)
	assert.Nil(t, got.Date)

	_, err = repo.UpdateBlogPost(ctx, content.BlogPost{ID: 404, Title: "x", LinkURL: "https://x.test"})
	assert.Equal(t, content.ErrBlogPostNotFound, err)
}
