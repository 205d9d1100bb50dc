package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/itsite/core/content"
)

// listing order: display order, then insertion
var listingOrder = []string{"display_order ASC", "id ASC"}

var (
	cardColumns = []string{
		"id", "type", "title", "category", "description", "image_url", "icon_name", "link_url", "metadata",
		"is_active", "display_order", "created_at", "updated_at",
	}
	listColumns = []string{
		"id", "type", "title", "content", "is_active", "display_order", "created_at", "updated_at",
	}
	teamColumns = []string{
		"id", "name", "role", "image_url", "email", "linkedin", "owner", "is_active", "display_order",
		"created_at", "updated_at",
	}
	blogColumns = []string{
		"id", "title", "description", "link_url", "date", "minutes_to_read", "is_active", "display_order",
		"created_at", "updated_at",
	}
)

type (
	cardRow struct {
		ID          int64       `db:"id"`
		Type        string      `db:"type"`
		Title       string      `db:"title"`
		Category    null.String `db:"category"`
		Description null.String `db:"description"`
		ImageURL    null.String `db:"image_url"`
		IconName    null.String `db:"icon_name"`
		LinkURL     null.String `db:"link_url"`
		Metadata    null.String `db:"metadata"`
		IsActive    bool        `db:"is_active"`
		Order       int         `db:"display_order"`
		CreatedAt   time.Time   `db:"created_at"`
		UpdatedAt   time.Time   `db:"updated_at"`
	}

	listRow struct {
		ID        int64     `db:"id"`
		Type      string    `db:"type"`
		Title     string    `db:"title"`
		Content   string    `db:"content"`
		IsActive  bool      `db:"is_active"`
		Order     int       `db:"display_order"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}

	teamRow struct {
		ID        int64       `db:"id"`
		Name      string      `db:"name"`
		Role      string      `db:"role"`
		ImageURL  null.String `db:"image_url"`
		Email     null.String `db:"email"`
		LinkedIn  null.String `db:"linkedin"`
		Owner     bool        `db:"owner"`
		IsActive  bool        `db:"is_active"`
		Order     int         `db:"display_order"`
		CreatedAt time.Time   `db:"created_at"`
		UpdatedAt time.Time   `db:"updated_at"`
	}

	blogRow struct {
		ID            int64       `db:"id"`
		Title         string      `db:"title"`
		Description   null.String `db:"description"`
		LinkURL       string      `db:"link_url"`
		Date          null.Time   `db:"date"`
		MinutesToRead null.Int    `db:"minutes_to_read"`
		IsActive      bool        `db:"is_active"`
		Order         int         `db:"display_order"`
		CreatedAt     time.Time   `db:"created_at"`
		UpdatedAt     time.Time   `db:"updated_at"`
	}
)

func (r cardRow) toCard() content.Card {
	return content.Card{
		ID:          r.ID,
		Type:        content.CardType(r.Type),
		Title:       r.Title,
		Category:    r.Category.Ptr(),
		Description: r.Description.Ptr(),
		ImageURL:    r.ImageURL.Ptr(),
		IconName:    r.IconName.Ptr(),
		LinkURL:     r.LinkURL.Ptr(),
		Metadata:    decodeRaw(r.Metadata),
		IsActive:    r.IsActive,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func (r listRow) toList() content.List {
	return content.List{
		ID:        r.ID,
		Type:      content.ListType(r.Type),
		Title:     r.Title,
		Content:   r.Content,
		IsActive:  r.IsActive,
		Order:     r.Order,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r teamRow) toTeamMember() content.TeamMember {
	return content.TeamMember{
		ID:        r.ID,
		Name:      r.Name,
		Role:      r.Role,
		ImageURL:  r.ImageURL.Ptr(),
		Email:     r.Email.Ptr(),
		LinkedIn:  r.LinkedIn.Ptr(),
		Owner:     r.Owner,
		IsActive:  r.IsActive,
		Order:     r.Order,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func (r blogRow) toBlogPost() content.BlogPost {
	return content.BlogPost{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description.Ptr(),
		LinkURL:       r.LinkURL,
		Date:          utcPtr(r.Date),
		MinutesToRead: r.MinutesToRead.Ptr(),
		IsActive:      r.IsActive,
		Order:         r.Order,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type contentRepository struct {
	db *DB
}

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) get(ctx context.Context, dest interface{}, table string, cols []string, id int64, notFound error) error {
	q := repo.db.sb.Select(cols...).From(table).Where(squirrel.Eq{"id": id})
	if err := repo.db.getRow(ctx, dest, q); err != nil {
		if err == sql.ErrNoRows {
			return notFound
		}
		return errors.Wrapf(err, "selecting from %s", table)
	}
	return nil
}

func (repo *contentRepository) update(ctx context.Context, table string, id int64, values map[string]interface{}, notFound error) error {
	n, err := exec(ctx, repo.db, repo.db.sb.Update(table).SetMap(values).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return errors.Wrapf(err, "updating %s", table)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (repo *contentRepository) remove(ctx context.Context, table string, id int64, notFound error) error {
	n, err := exec(ctx, repo.db, repo.db.sb.Delete(table).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", table)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isActiveFilter(q squirrel.SelectBuilder, isActive *bool) squirrel.SelectBuilder {
	if isActive != nil {
		return q.Where(squirrel.Eq{"is_active": *isActive})
	}
	return q
}

// Content Cards

func (repo *contentRepository) CreateCard(ctx context.Context, c content.Card) (content.Card, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("content_cards").
		Columns(cardColumns[1:]...).
		Values(
			string(c.Type),
			c.Title,
			null.StringFromPtr(c.Category),
			null.StringFromPtr(c.Description),
			null.StringFromPtr(c.ImageURL),
			null.StringFromPtr(c.IconName),
			null.StringFromPtr(c.LinkURL),
			encodeRaw(c.Metadata),
			c.IsActive,
			c.Order,
			c.CreatedAt,
			c.UpdatedAt,
		))
	if err != nil {
		return content.Card{}, errors.Wrap(err, "inserting content card")
	}
	c.ID = id
	return c, nil
}

func (repo *contentRepository) QueryCards(ctx context.Context, filter content.CardFilter) ([]content.Card, error) {
	q := repo.db.sb.Select(cardColumns...).From("content_cards").OrderBy(listingOrder...)
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(filter.Type)})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	q = isActiveFilter(q, filter.IsActive)

	var rows []cardRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting content cards")
	}
	cards := make([]content.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.toCard())
	}
	return cards, nil
}

func (repo *contentRepository) GetCard(ctx context.Context, id int64) (content.Card, error) {
	var r cardRow
	if err := repo.get(ctx, &r, "content_cards", cardColumns, id, content.ErrCardNotFound); err != nil {
		return content.Card{}, err
	}
	return r.toCard(), nil
}

func (repo *contentRepository) UpdateCard(ctx context.Context, c content.Card) (content.Card, error) {
	err := repo.update(ctx, "content_cards", c.ID, map[string]interface{}{
		"type":          string(c.Type),
		"title":         c.Title,
		"category":      null.StringFromPtr(c.Category),
		"description":   null.StringFromPtr(c.Description),
		"image_url":     null.StringFromPtr(c.ImageURL),
		"icon_name":     null.StringFromPtr(c.IconName),
		"link_url":      null.StringFromPtr(c.LinkURL),
		"metadata":      encodeRaw(c.Metadata),
		"is_active":     c.IsActive,
		"display_order": c.Order,
		"updated_at":    c.UpdatedAt,
	}, content.ErrCardNotFound)
	if err != nil {
		return content.Card{}, err
	}
	return c, nil
}

func (repo *contentRepository) DeleteCard(ctx context.Context, id int64) error {
	return repo.remove(ctx, "content_cards", id, content.ErrCardNotFound)
}

// Content Lists

func (repo *contentRepository) CreateList(ctx context.Context, l content.List) (content.List, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("content_lists").
		Columns(listColumns[1:]...).
		Values(string(l.Type), l.Title, l.Content, l.IsActive, l.Order, l.CreatedAt, l.UpdatedAt))
	if err != nil {
		return content.List{}, errors.Wrap(err, "inserting content list")
	}
	l.ID = id
	return l, nil
}

func (repo *contentRepository) QueryLists(ctx context.Context, filter content.ListFilter) ([]content.List, error) {
	q := repo.db.sb.Select(listColumns...).From("content_lists").OrderBy(listingOrder...)
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": string(filter.Type)})
	}
	q = isActiveFilter(q, filter.IsActive)

	var rows []listRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting content lists")
	}
	lists := make([]content.List, 0, len(rows))
	for _, r := range rows {
		lists = append(lists, r.toList())
	}
	return lists, nil
}

func (repo *contentRepository) GetList(ctx context.Context, id int64) (content.List, error) {
	var r listRow
	if err := repo.get(ctx, &r, "content_lists", listColumns, id, content.ErrListNotFound); err != nil {
		return content.List{}, err
	}
	return r.toList(), nil
}

func (repo *contentRepository) UpdateList(ctx context.Context, l content.List) (content.List, error) {
	err := repo.update(ctx, "content_lists", l.ID, map[string]interface{}{
		"type":          string(l.Type),
		"title":         l.Title,
		"content":       l.Content,
		"is_active":     l.IsActive,
		"display_order": l.Order,
		"updated_at":    l.UpdatedAt,
	}, content.ErrListNotFound)
	if err != nil {
		return content.List{}, err
	}
	return l, nil
}

func (repo *contentRepository) DeleteList(ctx context.Context, id int64) error {
	return repo.remove(ctx, "content_lists", id, content.ErrListNotFound)
}

// Team Members

func (repo *contentRepository) CreateTeamMember(ctx context.Context, m content.TeamMember) (content.TeamMember, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("team_members").
		Columns(teamColumns[1:]...).
		Values(
			m.Name,
			m.Role,
			null.StringFromPtr(m.ImageURL),
			null.StringFromPtr(m.Email),
			null.StringFromPtr(m.LinkedIn),
			m.Owner,
			m.IsActive,
			m.Order,
			m.CreatedAt,
			m.UpdatedAt,
		))
	if err != nil {
		return content.TeamMember{}, errors.Wrap(err, "inserting team member")
	}
	m.ID = id
	return m, nil
}

func (repo *contentRepository) QueryTeamMembers(ctx context.Context, filter content.TeamFilter) ([]content.TeamMember, error) {
	q := repo.db.sb.Select(teamColumns...).From("team_members").OrderBy(listingOrder...)
	if filter.Owner != nil {
		q = q.Where(squirrel.Eq{"owner": *filter.Owner})
	}
	q = isActiveFilter(q, filter.IsActive)

	var rows []teamRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting team members")
	}
	members := make([]content.TeamMember, 0, len(rows))
	for _, r := range rows {
		members = append(members, r.toTeamMember())
	}
	return members, nil
}

func (repo *contentRepository) GetTeamMember(ctx context.Context, id int64) (content.TeamMember, error) {
	var r teamRow
	if err := repo.get(ctx, &r, "team_members", teamColumns, id, content.ErrTeamMemberNotFound); err != nil {
		return content.TeamMember{}, err
	}
	return r.toTeamMember(), nil
}

func (repo *contentRepository) UpdateTeamMember(ctx context.Context, m content.TeamMember) (content.TeamMember, error) {
	err := repo.update(ctx, "team_members", m.ID, map[string]interface{}{
		"name":          m.Name,
		"role":          m.Role,
		"image_url":     null.StringFromPtr(m.ImageURL),
		"email":         null.StringFromPtr(m.Email),
		"linkedin":      null.StringFromPtr(m.LinkedIn),
		"owner":         m.Owner,
		"is_active":     m.IsActive,
		"display_order": m.Order,
		"updated_at":    m.UpdatedAt,
	}, content.ErrTeamMemberNotFound)
	if err != nil {
		return content.TeamMember{}, err
	}
	return m, nil
}

func (repo *contentRepository) DeleteTeamMember(ctx context.Context, id int64) error {
	return repo.remove(ctx, "team_members", id, content.ErrTeamMemberNotFound)
}

// Blog Posts

func (repo *contentRepository) CreateBlogPost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("blog_posts").
		Columns(blogColumns[1:]...).
		Values(
			p.Title,
			null.StringFromPtr(p.Description),
			p.LinkURL,
			null.TimeFromPtr(p.Date),
			null.IntFromPtr(p.MinutesToRead),
			p.IsActive,
			p.Order,
			p.CreatedAt,
			p.UpdatedAt,
		))
	if err != nil {
		return content.BlogPost{}, errors.Wrap(err, "inserting blog post")
	}
	p.ID = id
	return p, nil
}

func (repo *contentRepository) QueryBlogPosts(ctx context.Context, filter content.BlogFilter) ([]content.BlogPost, error) {
	q := isActiveFilter(repo.db.sb.Select(blogColumns...).From("blog_posts").OrderBy(listingOrder...), filter.IsActive)

	var rows []blogRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting blog posts")
	}
	posts := make([]content.BlogPost, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.toBlogPost())
	}
	return posts, nil
}

func (repo *contentRepository) GetBlogPost(ctx context.Context, id int64) (content.BlogPost, error) {
	var r blogRow
	if err := repo.get(ctx, &r, "blog_posts", blogColumns, id, content.ErrBlogPostNotFound); err != nil {
		return content.BlogPost{}, err
	}
	return r.toBlogPost(), nil
}

func (repo *contentRepository) UpdateBlogPost(ctx context.Context, p content.BlogPost) (content.BlogPost, error) {
	err := repo.update(ctx, "blog_posts", p.ID, map[string]interface{}{
		"title":           p.Title,
		"description":     null.StringFromPtr(p.Description),
		"link_url":        p.LinkURL,
		"date":            null.TimeFromPtr(p.Date),
		"minutes_to_read": null.IntFromPtr(p.MinutesToRead),
		"is_active":       p.IsActive,
		"display_order":   p.Order,
		"updated_at":      p.UpdatedAt,
	}, content.ErrBlogPostNotFound)
	if err != nil {
		return content.BlogPost{}, err
	}
	return p, nil
}

func (repo *contentRepository) DeleteBlogPost(ctx context.Context, id int64) error {
	return repo.remove(ctx, "blog_posts", id, content.ErrBlogPostNotFound)
}
