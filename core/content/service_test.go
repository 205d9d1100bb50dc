package content_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/itsite/core"
	"github.com/trezcool/itsite/core/content"
	inmemdb "github.com/trezcool/itsite/storage/database/inmem"
)

func newService() content.ServiceInterface {
	return content.NewService(inmemdb.NewContentRepository(inmemdb.Open()))
}

func intPtr(i int) *int { return &i }

func TestService_CardDefaultsAndOrdering(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	a, err := svc.CreateCard(ctx, content.NewCard{Type: content.CardService, Title: "A", Order: intPtr(1)})
	require.NoError(t, err)
	b, err := svc.CreateCard(ctx, content.NewCard{Type: content.CardService, Title: "B"})
	require.NoError(t, err)
	c, err := svc.CreateCard(ctx, content.NewCard{Type: content.CardService, Title: "C", Order: intPtr(1)})
	require.NoError(t, err)

	assert.True(t, b.IsActive)
	assert.Equal(t, 0, b.Order)

	cards, err := svc.QueryCards(ctx, content.CardFilter{})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, []int64{b.ID, a.ID, c.ID}, []int64{cards[0].ID, cards[1].ID, cards[2].ID})
}

func TestService_CardMetadata(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	meta := json.RawMessage(`{"technologies":["Go","React"],"nested":{"n":1}}`)

	card, err := svc.CreateCard(ctx, content.NewCard{Type: content.CardProject, Title: "Storefront", Metadata: meta})
	require.NoError(t, err)

	got, err := svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(meta), string(got.Metadata))

	pc, ok := got.Variant().(content.ProjectCard)
	require.True(t, ok)
	require.NotNil(t, pc.Details)
	assert.Equal(t, []string{"Go", "React"}, pc.Details.Technologies)

	// untouched by unrelated updates
	got, err = svc.UpdateCard(ctx, card.ID, content.CardUpdate{Order: intPtr(5)})
	require.NoError(t, err)
	assert.JSONEq(t, string(meta), string(got.Metadata))
	assert.Equal(t, "Storefront", got.Title)

	got, err = svc.UpdateCard(ctx, card.ID, content.CardUpdate{Metadata: json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Nil(t, got.Metadata)

	_, err = svc.CreateCard(ctx, content.NewCard{Type: content.CardProject, Title: "Bad", Metadata: json.RawMessage(`{bad`)})
	assert.Error(t, err)
}

func TestCard_Variant(t *testing.T) {
	tests := []struct {
		typ  content.CardType
		want interface{}
	}{
		{content.CardService, content.ServiceCard{}},
		{content.CardProject, content.ProjectCard{}},
		{content.CardTestimonial, content.TestimonialCard{}},
		{content.CardTeam, content.TeamCard{}},
		{content.CardPartner, content.PartnerCard{}},
		{content.CardServiceSection, content.ServiceSectionCard{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			card := content.Card{ID: 1, Type: tt.typ, Title: "x"}
			v := card.Variant()
			assert.IsType(t, tt.want, v)
			assert.Equal(t, card, content.CardOf(v))
		})
	}

	assert.Nil(t, content.Card{Type: "banner"}.Variant())

	pc := content.Card{Type: content.CardProject, Metadata: json.RawMessage(`[1,2]`)}.Variant().(content.ProjectCard)
	assert.Nil(t, pc.Details, "non-object metadata has no details")
}

func TestService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.GetCard(ctx, 1)
	assert.Equal(t, content.ErrCardNotFound, err)
	_, err = svc.UpdateList(ctx, 1, content.ListUpdate{})
	assert.Equal(t, content.ErrListNotFound, err)
	assert.Equal(t, content.ErrTeamMemberNotFound, svc.DeleteTeamMember(ctx, 1))
	_, err = svc.GetBlogPost(ctx, 1)
	assert.True(t, core.IsNotFound(err))

	l, err := svc.CreateList(ctx, content.NewList{Type: content.ListFAQ, Title: "Q", Content: "A"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteList(ctx, l.ID))
	_, err = svc.GetList(ctx, l.ID)
	assert.Equal(t, content.ErrListNotFound, err)
}

func TestService_TeamAndBlog(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	m, err := svc.CreateTeamMember(ctx, content.NewTeamMember{Name: "Ana", Role: "Dev"})
	require.NoError(t, err)
	assert.False(t, m.Owner)
	assert.True(t, m.IsActive)

	owner := true
	m, err = svc.UpdateTeamMember(ctx, m.ID, content.TeamMemberUpdate{Owner: &owner})
	require.NoError(t, err)
	assert.True(t, m.Owner)
	assert.Equal(t, "Dev", m.Role)

	owners, err := svc.QueryTeamMembers(ctx, content.TeamFilter{Owner: &owner})
	require.NoError(t, err)
	assert.Len(t, owners, 1)

	_, err = svc.CreateBlogPost(ctx, content.NewBlogPost{Title: "Why Go", LinkURL: "nope"})
	assert.Error(t, err)
	p, err := svc.CreateBlogPost(ctx, content.NewBlogPost{
		Title:         "Why Go",
		LinkURL:       "https://blog.example.com/why-go",
		MinutesToRead: intPtr(4),
	})
	require.NoError(t, err)
	inactive := false
	p, err = svc.UpdateBlogPost(ctx, p.ID, content.BlogPostUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 4, *p.MinutesToRead)

	active := true
	posts, err := svc.QueryBlogPosts(ctx, content.BlogFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Empty(t, posts)
}
