package inmemdb

import (
	"context"

	"github.com/trezcool/itsite/core/content"
)

type contentRepository struct {
	cards *table[content.Card]
	lists *table[content.List]
	team  *table[content.TeamMember]
	blog  *table[content.BlogPost]
}

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{cards: db.cards, lists: db.lists, team: db.team, blog: db.blog}
}

// Content Cards

func copyCard(c content.Card) content.Card {
	c.Metadata = cloneBytes(c.Metadata)
	return c
}

func (repo *contentRepository) CreateCard(_ context.Context, c content.Card) (content.Card, error) {
	repo.cards.Lock()
	defer repo.cards.Unlock()

	c = copyCard(c)
	c.ID = repo.cards.nextID()
	repo.cards.rows = append(repo.cards.rows, c)
	return copyCard(c), nil
}

func (repo *contentRepository) QueryCards(_ context.Context, filter content.CardFilter) ([]content.Card, error) {
	repo.cards.RLock()
	defer repo.cards.RUnlock()

	rows := repo.cards.filter(func(c content.Card) bool {
		if filter.Type != "" && c.Type != filter.Type {
			return false
		}
		if filter.Category != "" && (c.Category == nil || *c.Category != filter.Category) {
			return false
		}
		return filter.IsActive == nil || c.IsActive == *filter.IsActive
	})
	for i := range rows {
		rows[i] = copyCard(rows[i])
	}
	sortByOrder(rows, func(c content.Card) int { return c.Order })
	return rows, nil
}

func (repo *contentRepository) GetCard(_ context.Context, id int64) (content.Card, error) {
	c, ok := repo.cards.get(func(c content.Card) bool { return c.ID == id })
	if !ok {
		return content.Card{}, content.ErrCardNotFound
	}
	return copyCard(c), nil
}

func (repo *contentRepository) UpdateCard(_ context.Context, c content.Card) (content.Card, error) {
	c = copyCard(c)
	if !repo.cards.replace(func(row content.Card) bool { return row.ID == c.ID }, c) {
		return content.Card{}, content.ErrCardNotFound
	}
	return copyCard(c), nil
}

func (repo *contentRepository) DeleteCard(_ context.Context, id int64) error {
	if repo.cards.remove(func(c content.Card) bool { return c.ID == id }) == 0 {
		return content.ErrCardNotFound
	}
	return nil
}

// Content Lists

func (repo *contentRepository) CreateList(_ context.Context, l content.List) (content.List, error) {
	repo.lists.Lock()
	defer repo.lists.Unlock()

	l.ID = repo.lists.nextID()
	repo.lists.rows = append(repo.lists.rows, l)
	return l, nil
}

func (repo *contentRepository) QueryLists(_ context.Context, filter content.ListFilter) ([]content.List, error) {
	repo.lists.RLock()
	defer repo.lists.RUnlock()

	rows := repo.lists.filter(func(l content.List) bool {
		if filter.Type != "" && l.Type != filter.Type {
			return false
		}
		return filter.IsActive == nil || l.IsActive == *filter.IsActive
	})
	sortByOrder(rows, func(l content.List) int { return l.Order })
	return rows, nil
}

func (repo *contentRepository) GetList(_ context.Context, id int64) (content.List, error) {
	l, ok := repo.lists.get(func(l content.List) bool { return l.ID == id })
	if !ok {
		return content.List{}, content.ErrListNotFound
	}
	return l, nil
}

func (repo *contentRepository) UpdateList(_ context.Context, l content.List) (content.List, error) {
	if !repo.lists.replace(func(row content.List) bool { return row.ID == l.ID }, l) {
		return content.List{}, content.ErrListNotFound
	}
	return l, nil
}

func (repo *contentRepository) DeleteList(_ context.Context, id int64) error {
	if repo.lists.remove(func(l content.List) bool { return l.ID == id }) == 0 {
		return content.ErrListNotFound
	}
	return nil
}

// Team Members

func (repo *contentRepository) CreateTeamMember(_ context.Context, m content.TeamMember) (content.TeamMember, error) {
	repo.team.Lock()
	defer repo.team.Unlock()

	m.ID = repo.team.nextID()
	repo.team.rows = append(repo.team.rows, m)
	return m, nil
}

func (repo *contentRepository) QueryTeamMembers(_ context.Context, filter content.TeamFilter) ([]content.TeamMember, error) {
	repo.team.RLock()
	defer repo.team.RUnlock()

	rows := repo.team.filter(func(m content.TeamMember) bool {
		if filter.Owner != nil && m.Owner != *filter.Owner {
			return false
		}
		return filter.IsActive == nil || m.IsActive == *filter.IsActive
	})
	sortByOrder(rows, func(m content.TeamMember) int { return m.Order })
	return rows, nil
}

func (repo *contentRepository) GetTeamMember(_ context.Context, id int64) (content.TeamMember, error) {
	m, ok := repo.team.get(func(m content.TeamMember) bool { return m.ID == id })
	if !ok {
		return content.TeamMember{}, content.ErrTeamMemberNotFound
	}
	return m, nil
}

func (repo *contentRepository) UpdateTeamMember(_ context.Context, m content.TeamMember) (content.TeamMember, error) {
	if !repo.team.replace(func(row content.TeamMember) bool { return row.ID == m.ID }, m) {
		return content.TeamMember{}, content.ErrTeamMemberNotFound
	}
	return m, nil
}

func (repo *contentRepository) DeleteTeamMember(_ context.Context, id int64) error {
	if repo.team.remove(func(m content.TeamMember) bool { return m.ID == id }) == 0 {
		return content.ErrTeamMemberNotFound
	}
	return nil
}

// Blog Posts

func (repo *contentRepository) CreateBlogPost(_ context.Context, p content.BlogPost) (content.BlogPost, error) {
	repo.blog.Lock()
	defer repo.blog.Unlock()

	p.ID = repo.blog.nextID()
	repo.blog.rows = append(repo.blog.rows, p)
	return p, nil
}

func (repo *contentRepository) QueryBlogPosts(_ context.Context, filter content.BlogFilter) ([]content.BlogPost, error) {
	repo.blog.RLock()
	defer repo.blog.RUnlock()

	rows := repo.blog.filter(func(p content.BlogPost) bool {
		return filter.IsActive == nil || p.IsActive == *filter.IsActive
	})
	sortByOrder(rows, func(p content.BlogPost) int { return p.Order })
	return rows, nil
}

func (repo *contentRepository) GetBlogPost(_ context.Context, id int64) (content.BlogPost, error) {
	p, ok := repo.blog.get(func(p content.BlogPost) bool { return p.ID == id })
	if !ok {
		return content.BlogPost{}, content.ErrBlogPostNotFound
	}
	return p, nil
}

func (repo *contentRepository) UpdateBlogPost(_ context.Context, p content.BlogPost) (content.BlogPost, error) {
	if !repo.blog.replace(func(row content.BlogPost) bool { return row.ID == p.ID }, p) {
		return content.BlogPost{}, content.ErrBlogPostNotFound
	}
	return p, nil
}

func (repo *contentRepository) DeleteBlogPost(_ context.Context, id int64) error {
	if repo.blog.remove(func(p content.BlogPost) bool { return p.ID == id }) == 0 {
		return content.ErrBlogPostNotFound
	}
	return nil
}
