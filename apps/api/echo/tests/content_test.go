package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core/content"
	"github.com/trezcool/itsite/core/user"
)

// post creates a record through the admin API and decodes the response into dest.
func (env *testEnv) post(t *testing.T, token, path, body string, dest interface{}) {
	t.Helper()
	req, rec := newAuthRequest(http.MethodPost, path, token, []byte(body))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unmarshal(t, rec, dest)
}

func TestContentCards(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "Admin", "admin@example.com", user.RoleAdmin)
	token := env.token(t, admin)

	var web, mobile, hidden, quote content.Card
	env.post(t, token, "/api/admin/content-cards", `{"type":"service","title":"Web","category":"dev","order":2}`, &web)
	env.post(t, token, "/api/admin/content-cards", `{"type":"service","title":"Mobile","category":"dev","order":1}`, &mobile)
	env.post(t, token, "/api/admin/content-cards", `{"type":"service","title":"Hidden","isActive":false}`, &hidden)
	env.post(t, token, "/api/admin/content-cards", `{"type":"testimonial","title":"Great work","order":1}`, &quote)

	t.Run("defaults", func(t *testing.T) {
		assert.True(t, quote.IsActive)
		assert.Equal(t, 0, hidden.Order)

		stored, err := env.contentRepo.GetCard(context.Background(), quote.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Metadata)
	})

	tests := []httpTest{
		{
			name:     "public lists active cards by order",
			path:     "/api/content-cards",
			wantCode: http.StatusOK,
			wantData: marshalList(t, mobile, quote, web),
		},
		{
			name:     "public by type",
			path:     "/api/content-cards?type=service",
			wantCode: http.StatusOK,
			wantData: marshalList(t, mobile, web),
		},
		{
			name:     "public by category",
			path:     "/api/content-cards?category=dev",
			wantCode: http.StatusOK,
			wantData: marshalList(t, mobile, web),
		},
		{
			name:     "public ignores isActive",
			path:     "/api/content-cards?type=service&isActive=false",
			wantCode: http.StatusOK,
			wantData: marshalList(t, mobile, web),
		},
		{
			name:     "invalid type",
			path:     "/api/content-cards?type=banner",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "admin sees inactive cards",
			path:     "/api/admin/content-cards?isActive=false",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshalList(t, hidden),
		},
		{
			name:     "invalid isActive",
			path:     "/api/admin/content-cards?isActive=maybe",
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create with invalid type",
			method:   http.MethodPost,
			path:     "/api/admin/content-cards",
			token:    token,
			body:     []byte(`{"type":"banner","title":"Nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create with blank title",
			method:   http.MethodPost,
			path:     "/api/admin/content-cards",
			token:    token,
			body:     []byte(`{"type":"service","title":"   "}`),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("partial update", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/admin/content-cards/%d", web.ID), token,
			[]byte(`{"order":0}`))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got content.Card
		unmarshal(t, rec, &got)
		assert.Equal(t, 0, got.Order)
		assert.Equal(t, web.Title, got.Title)
		assert.Equal(t, web.Category, got.Category)
		assert.Equal(t, web.IsActive, got.IsActive)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/admin/content-cards/%d", quote.ID)
		tests := []httpTest{
			{name: "delete", method: http.MethodDelete, path: path, token: token, wantCode: http.StatusNoContent},
			{
				name:     "then not found",
				path:     path,
				token:    token,
				wantCode: http.StatusNotFound,
				wantData: marshalObj(t, httpErr{Error: "content card not found"}),
			},
			{name: "update deleted", method: http.MethodPut, path: path, token: token, body: []byte(`{}`), wantCode: http.StatusNotFound},
			{name: "delete deleted", method: http.MethodDelete, path: path, token: token, wantCode: http.StatusNotFound},
		}
		runHTTPTests(t, env, tests)
	})
}

func TestProjects(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "Admin", "admin@example.com", user.RoleAdmin)
	token := env.token(t, admin)

	var project, service content.Card
	env.post(t, token, "/api/admin/projects",
		`{"title":"Storefront","metadata":{"technologies":["Go","React"],"client":"Acme"}}`, &project)
	env.post(t, token, "/api/admin/content-cards", `{"type":"service","title":"Web"}`, &service)

	t.Run("metadata round-trips", func(t *testing.T) {
		assert.Equal(t, content.CardProject, project.Type)
		assert.JSONEq(t, `{"technologies":["Go","React"],"client":"Acme"}`, string(project.Metadata))

		req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/api/admin/projects/%d", project.ID), token)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var got content.Card
		unmarshal(t, rec, &got)
		assert.JSONEq(t, `{"technologies":["Go","React"],"client":"Acme"}`, string(got.Metadata))
	})

	t.Run("public projects carry details", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/projects")
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var projects []content.ProjectCard
		unmarshal(t, rec, &projects)
		require.Len(t, projects, 1)
		if assert.NotNil(t, projects[0].Details) {
			assert.Equal(t, []string{"Go", "React"}, projects[0].Details.Technologies)
			assert.Equal(t, "Acme", projects[0].Details.Client)
		}
	})

	tests := []httpTest{
		{
			name:     "other card types are not projects",
			path:     fmt.Sprintf("/api/admin/projects/%d", service.ID),
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "admin list holds projects only",
			path:     "/api/admin/projects",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marshalList(t, project),
		},
		{
			name:     "type cannot be changed",
			method:   http.MethodPut,
			path:     fmt.Sprintf("/api/admin/projects/%d", project.ID),
			token:    token,
			body:     []byte(`{"type":"service","title":"Storefront v2"}`),
			wantCode: http.StatusOK,
		},
	}
	runHTTPTests(t, env, tests)

	got, err := env.contentRepo.GetCard(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, content.CardProject, got.Type)
	assert.Equal(t, "Storefront v2", got.Title)

	t.Run("metadata null clears it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/admin/projects/%d", project.ID), token,
			[]byte(`{"metadata":null}`))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"metadata":null`)

		stored, err := env.contentRepo.GetCard(context.Background(), project.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Metadata)
	})
}

func TestContentLists(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "Admin", "admin@example.com", user.RoleAdmin)
	token := env.token(t, admin)

	var faq1, faq2, award content.List
	env.post(t, token, "/api/admin/content-lists", `{"type":"faq","title":"Do you host?","content":"Yes."}`, &faq1)
	env.post(t, token, "/api/admin/content-lists", `{"type":"faq","title":"Do you train?","content":"Yes."}`, &faq2)
	env.post(t, token, "/api/admin/content-lists", `{"type":"achievement","title":"100 sites","content":"Shipped.","order":-1}`, &award)

	tests := []httpTest{
		{
			name:     "ties keep insertion order",
			path:     "/api/content-lists",
			wantCode: http.StatusOK,
			wantData: marshalList(t, award, faq1, faq2),
		},
		{
			name:     "by type",
			path:     "/api/content-lists?type=faq",
			wantCode: http.StatusOK,
			wantData: marshalList(t, faq1, faq2),
		},
		{
			name:     "invalid type",
			path:     "/api/content-lists?type=quote",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing content",
			method:   http.MethodPost,
			path:     "/api/admin/content-lists",
			token:    token,
			body:     []byte(`{"type":"faq","title":"Empty?"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     fmt.Sprintf("/api/admin/content-lists/%d", faq1.ID),
			token:    token,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "deleted",
			path:     fmt.Sprintf("/api/admin/content-lists/%d", faq1.ID),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "content list not found"}),
		},
	}
	runHTTPTests(t, env, tests)
}

func TestTeamMembers(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "Admin", "admin@example.com", user.RoleAdmin)
	token := env.token(t, admin)

	var owner, dev, former content.TeamMember
	env.post(t, token, "/api/admin/team-members", `{"name":"Tresor","role":"Founder","owner":true}`, &owner)
	env.post(t, token, "/api/admin/team-members", `{"name":"Ana","role":"Developer","order":1}`, &dev)
	env.post(t, token, "/api/admin/team-members", `{"name":"Bo","role":"Designer","isActive":false}`, &former)

	tests := []httpTest{
		{
			name:     "active members",
			path:     "/api/team-members",
			wantCode: http.StatusOK,
			wantData: marshalList(t, owner, dev),
		},
		{
			name:     "owners",
			path:     "/api/team-members?owner=true",
			wantCode: http.StatusOK,
			wantData: marshalList(t, owner),
		},
		{
			name:     "invalid email",
			method:   http.MethodPost,
			path:     "/api/admin/team-members",
			token:    token,
			body:     []byte(`{"name":"Cy","role":"Dev","email":"nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "regular users cannot create",
			method:   http.MethodPost,
			path:     "/api/admin/team-members",
			token:    env.token(t, env.createUser(t, "Jane", "jane@example.com", user.RoleUser)),
			body:     []byte(`{"name":"Cy","role":"Dev"}`),
			wantCode: http.StatusForbidden,
		},
	}
	runHTTPTests(t, env, tests)

	t.Run("reactivate", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/api/admin/team-members/%d", former.ID), token,
			[]byte(`{"isActive":true}`))
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got content.TeamMember
		unmarshal(t, rec, &got)
		assert.True(t, got.IsActive)
		assert.Equal(t, "Bo", got.Name)
		assert.Equal(t, "Designer", got.Role)
	})
}

func TestBlogPosts(t *testing.T) {
	env := setup(t)
	admin := env.createUser(t, "Admin", "admin@example.com", user.RoleAdmin)
	token := env.token(t, admin)

	var post content.BlogPost
	env.post(t, token, "/api/admin/blog-posts",
		`{"title":"Why Go","linkUrl":"https://blog.example.com/why-go","date":"2026-09-01T00:00:00Z","minutesToRead":5}`, &post)
	assert.True(t, post.IsActive)

	tests := []httpTest{
		{
			name:     "public",
			path:     "/api/blog-posts",
			wantCode: http.StatusOK,
			wantData: marshalList(t, post),
		},
		{
			name:     "invalid link",
			method:   http.MethodPost,
			path:     "/api/admin/blog-posts",
			token:    token,
			body:     []byte(`{"title":"Nope","linkUrl":"not a url"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "hide",
			method:   http.MethodPut,
			path:     fmt.Sprintf("/api/admin/blog-posts/%d", post.ID),
			token:    token,
			body:     []byte(`{"isActive":false}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "hidden from public",
			path:     "/api/blog-posts",
			wantCode: http.StatusOK,
			wantData: marshalList(t),
		},
		{
			name:     "unknown",
			path:     "/api/admin/blog-posts/999",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "blog post not found"}),
		},
	}
	runHTTPTests(t, env, tests)
}
