package content

import (
	"context"

	"github.com/trezcool/itsite/core"
)

var (
	// errors
	ErrCardNotFound       = core.NewNotFoundError("content card")
	ErrListNotFound       = core.NewNotFoundError("content list")
	ErrTeamMemberNotFound = core.NewNotFoundError("team member")
	ErrBlogPostNotFound   = core.NewNotFoundError("blog post")
)

type (
	// Repository lists records by order ascending, ties in insertion order.
	// Get, Update and Delete return the entity's NotFound error for unknown ids.
	Repository interface {
		CreateCard(ctx context.Context, c Card) (Card, error)
		QueryCards(ctx context.Context, filter CardFilter) ([]Card, error)
		GetCard(ctx context.Context, id int64) (Card, error)
		UpdateCard(ctx context.Context, c Card) (Card, error)
		DeleteCard(ctx context.Context, id int64) error

		CreateList(ctx context.Context, l List) (List, error)
		QueryLists(ctx context.Context, filter ListFilter) ([]List, error)
		GetList(ctx context.Context, id int64) (List, error)
		UpdateList(ctx context.Context, l List) (List, error)
		DeleteList(ctx context.Context, id int64) error

		CreateTeamMember(ctx context.Context, m TeamMember) (TeamMember, error)
		QueryTeamMembers(ctx context.Context, filter TeamFilter) ([]TeamMember, error)
		GetTeamMember(ctx context.Context, id int64) (TeamMember, error)
		UpdateTeamMember(ctx context.Context, m TeamMember) (TeamMember, error)
		DeleteTeamMember(ctx context.Context, id int64) error

		CreateBlogPost(ctx context.Context, p BlogPost) (BlogPost, error)
		QueryBlogPosts(ctx context.Context, filter BlogFilter) ([]BlogPost, error)
		GetBlogPost(ctx context.Context, id int64) (BlogPost, error)
		UpdateBlogPost(ctx context.Context, p BlogPost) (BlogPost, error)
		DeleteBlogPost(ctx context.Context, id int64) error
	}

	ServiceInterface interface {
		QueryCards(ctx context.Context, filter CardFilter) ([]Card, error)
		GetCard(ctx context.Context, id int64) (Card, error)
		CreateCard(ctx context.Context, data NewCard) (Card, error)
		UpdateCard(ctx context.Context, id int64, data CardUpdate) (Card, error)
		DeleteCard(ctx context.Context, id int64) error

		QueryLists(ctx context.Context, filter ListFilter) ([]List, error)
		GetList(ctx context.Context, id int64) (List, error)
		CreateList(ctx context.Context, data NewList) (List, error)
		UpdateList(ctx context.Context, id int64, data ListUpdate) (List, error)
		DeleteList(ctx context.Context, id int64) error

		QueryTeamMembers(ctx context.Context, filter TeamFilter) ([]TeamMember, error)
		GetTeamMember(ctx context.Context, id int64) (TeamMember, error)
		CreateTeamMember(ctx context.Context, data NewTeamMember) (TeamMember, error)
		UpdateTeamMember(ctx context.Context, id int64, data TeamMemberUpdate) (TeamMember, error)
		DeleteTeamMember(ctx context.Context, id int64) error

		QueryBlogPosts(ctx context.Context, filter BlogFilter) ([]BlogPost, error)
		GetBlogPost(ctx context.Context, id int64) (BlogPost, error)
		CreateBlogPost(ctx context.Context, data NewBlogPost) (BlogPost, error)
		UpdateBlogPost(ctx context.Context, id int64, data BlogPostUpdate) (BlogPost, error)
		DeleteBlogPost(ctx context.Context, id int64) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

// order & isActive defaults
func listing(isActive *bool, order *int) (bool, int) {
	active, ord := true, 0
	if isActive != nil {
		active = *isActive
	}
	if order != nil {
		ord = *order
	}
	return active, ord
}

// Content Cards

func (svc *service) QueryCards(ctx context.Context, filter CardFilter) ([]Card, error) {
	filter.Category = core.CleanString(filter.Category)
	return svc.repo.QueryCards(ctx, filter)
}

func (svc *service) GetCard(ctx context.Context, id int64) (Card, error) {
	return svc.repo.GetCard(ctx, id)
}

func (svc *service) CreateCard(ctx context.Context, data NewCard) (Card, error) {
	if err := data.Validate(); err != nil {
		return Card{}, err
	}
	now := core.NowFunc()
	c := Card{
		Type:        data.Type,
		Title:       data.Title,
		Category:    data.Category,
		Description: data.Description,
		ImageURL:    data.ImageURL,
		IconName:    data.IconName,
		LinkURL:     data.LinkURL,
		Metadata:    normalizeMetadata(data.Metadata),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.IsActive, c.Order = listing(data.IsActive, data.Order)
	return svc.repo.CreateCard(ctx, c)
}

func (svc *service) UpdateCard(ctx context.Context, id int64, data CardUpdate) (Card, error) {
	if err := data.Validate(); err != nil {
		return Card{}, err
	}
	c, err := svc.repo.GetCard(ctx, id)
	if err != nil {
		return Card{}, err
	}
	data.apply(&c)
	c.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateCard(ctx, c)
}

func (svc *service) DeleteCard(ctx context.Context, id int64) error {
	return svc.repo.DeleteCard(ctx, id)
}

// Content Lists

func (svc *service) QueryLists(ctx context.Context, filter ListFilter) ([]List, error) {
	return svc.repo.QueryLists(ctx, filter)
}

func (svc *service) GetList(ctx context.Context, id int64) (List, error) {
	return svc.repo.GetList(ctx, id)
}

func (svc *service) CreateList(ctx context.Context, data NewList) (List, error) {
	if err := data.Validate(); err != nil {
		return List{}, err
	}
	now := core.NowFunc()
	l := List{
		Type:      data.Type,
		Title:     data.Title,
		Content:   data.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.IsActive, l.Order = listing(data.IsActive, data.Order)
	return svc.repo.CreateList(ctx, l)
}

func (svc *service) UpdateList(ctx context.Context, id int64, data ListUpdate) (List, error) {
	if err := data.Validate(); err != nil {
		return List{}, err
	}
	l, err := svc.repo.GetList(ctx, id)
	if err != nil {
		return List{}, err
	}
	data.apply(&l)
	l.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateList(ctx, l)
}

func (svc *service) DeleteList(ctx context.Context, id int64) error {
	return svc.repo.DeleteList(ctx, id)
}

// Team Members

func (svc *service) QueryTeamMembers(ctx context.Context, filter TeamFilter) ([]TeamMember, error) {
	return svc.repo.QueryTeamMembers(ctx, filter)
}

func (svc *service) GetTeamMember(ctx context.Context, id int64) (TeamMember, error) {
	return svc.repo.GetTeamMember(ctx, id)
}

func (svc *service) CreateTeamMember(ctx context.Context, data NewTeamMember) (TeamMember, error) {
	if err := data.Validate(); err != nil {
		return TeamMember{}, err
	}
	now := core.NowFunc()
	m := TeamMember{
		Name:      data.Name,
		Role:      data.Role,
		ImageURL:  data.ImageURL,
		Email:     data.Email,
		LinkedIn:  data.LinkedIn,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if data.Owner != nil {
		m.Owner = *data.Owner
	}
	m.IsActive, m.Order = listing(data.IsActive, data.Order)
	return svc.repo.CreateTeamMember(ctx, m)
}

func (svc *service) UpdateTeamMember(ctx context.Context, id int64, data TeamMemberUpdate) (TeamMember, error) {
	if err := data.Validate(); err != nil {
		return TeamMember{}, err
	}
	m, err := svc.repo.GetTeamMember(ctx, id)
	if err != nil {
		return TeamMember{}, err
	}
	data.apply(&m)
	m.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateTeamMember(ctx, m)
}

func (svc *service) DeleteTeamMember(ctx context.Context, id int64) error {
	return svc.repo.DeleteTeamMember(ctx, id)
}

// Blog Posts

func (svc *service) QueryBlogPosts(ctx context.Context, filter BlogFilter) ([]BlogPost, error) {
	return svc.repo.QueryBlogPosts(ctx, filter)
}

func (svc *service) GetBlogPost(ctx context.Context, id int64) (BlogPost, error) {
	return svc.repo.GetBlogPost(ctx, id)
}

func (svc *service) CreateBlogPost(ctx context.Context, data NewBlogPost) (BlogPost, error) {
	if err := data.Validate(); err != nil {
		return BlogPost{}, err
	}
	now := core.NowFunc()
	p := BlogPost{
		Title:         data.Title,
		Description:   data.Description,
		LinkURL:       data.LinkURL,
		Date:          data.Date,
		MinutesToRead: data.MinutesToRead,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.IsActive, p.Order = listing(data.IsActive, data.Order)
	return svc.repo.CreateBlogPost(ctx, p)
}

func (svc *service) UpdateBlogPost(ctx context.Context, id int64, data BlogPostUpdate) (BlogPost, error) {
	if err := data.Validate(); err != nil {
		return BlogPost{}, err
	}
	p, err := svc.repo.GetBlogPost(ctx, id)
	if err != nil {
		return BlogPost{}, err
	}
	data.apply(&p)
	p.UpdatedAt = core.NowFunc()
	return svc.repo.UpdateBlogPost(ctx, p)
}

func (svc *service) DeleteBlogPost(ctx context.Context, id int64) error {
	return svc.repo.DeleteBlogPost(ctx, id)
}
