package content

import (
	"encoding/json"
	"time"

	"github.com/trezcool/itsite/core"
)

type CardType string

// Card types
const (
	CardService        CardType = "service"
	CardProject        CardType = "project"
	CardTestimonial    CardType = "testimonial"
	CardTeam           CardType = "team"
	CardPartner        CardType = "partner"
	CardServiceSection CardType = "service-section"
)

var CardTypes = []CardType{CardService, CardProject, CardTestimonial, CardTeam, CardPartner, CardServiceSection}

func (t CardType) Valid() bool {
	for _, typ := range CardTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// Card is a polymorphic content record discriminated by Type. See Card.Variant for a typed view.
type Card struct {
	ID          int64           `json:"id"`
	Type        CardType        `json:"type"`
	Title       string          `json:"title"`
	Category    *string         `json:"category"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	IconName    *string         `json:"iconName"`
	LinkURL     *string         `json:"linkUrl"`
	Metadata    json.RawMessage `json:"metadata"` // opaque, stored verbatim
	IsActive    bool            `json:"isActive"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type NewCard struct {
	Type        CardType        `json:"type" validate:"required,cardtype"`
	Title       string          `json:"title" validate:"required,notblank,max=200"`
	Category    *string         `json:"category" validate:"omitempty,max=100"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,max=500"`
	IconName    *string         `json:"iconName" validate:"omitempty,max=100"`
	LinkURL     *string         `json:"linkUrl" validate:"omitempty,max=500"`
	Metadata    json.RawMessage `json:"metadata" validate:"omitempty,json"`
	IsActive    *bool           `json:"isActive"`
	Order       *int            `json:"order"`
}

func (nc *NewCard) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Category = core.CleanStringPtr(nc.Category)
	nc.Description = core.CleanStringPtr(nc.Description)
	nc.ImageURL = core.CleanStringPtr(nc.ImageURL)
	nc.IconName = core.CleanStringPtr(nc.IconName)
	nc.LinkURL = core.CleanStringPtr(nc.LinkURL)
	return core.Validate.Struct(nc)
}

// CardUpdate holds the fields to change. A Metadata of `null` clears it.
type CardUpdate struct {
	Type        *CardType       `json:"type" validate:"omitempty,cardtype"`
	Title       *string         `json:"title" validate:"omitempty,notblank,max=200"`
	Category    *string         `json:"category" validate:"omitempty,max=100"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl" validate:"omitempty,max=500"`
	IconName    *string         `json:"iconName" validate:"omitempty,max=100"`
	LinkURL     *string         `json:"linkUrl" validate:"omitempty,max=500"`
	Metadata    json.RawMessage `json:"metadata" validate:"omitempty,json"`
	IsActive    *bool           `json:"isActive"`
	Order       *int            `json:"order"`
}

func (cu *CardUpdate) Validate() error {
	cu.Title = core.CleanStringPtr(cu.Title)
	cu.Category = core.CleanStringPtr(cu.Category)
	cu.Description = core.CleanStringPtr(cu.Description)
	cu.ImageURL = core.CleanStringPtr(cu.ImageURL)
	cu.IconName = core.CleanStringPtr(cu.IconName)
	cu.LinkURL = core.CleanStringPtr(cu.LinkURL)
	return core.Validate.Struct(cu)
}

func (cu CardUpdate) apply(c *Card) {
	if cu.Type != nil {
		c.Type = *cu.Type
	}
	if cu.Title != nil {
		c.Title = *cu.Title
	}
	if cu.Category != nil {
		c.Category = cu.Category
	}
	if cu.Description != nil {
		c.Description = cu.Description
	}
	if cu.ImageURL != nil {
		c.ImageURL = cu.ImageURL
	}
	if cu.IconName != nil {
		c.IconName = cu.IconName
	}
	if cu.LinkURL != nil {
		c.LinkURL = cu.LinkURL
	}
	if len(cu.Metadata) > 0 {
		c.Metadata = normalizeMetadata(cu.Metadata)
	}
	if cu.IsActive != nil {
		c.IsActive = *cu.IsActive
	}
	if cu.Order != nil {
		c.Order = *cu.Order
	}
}

// normalizeMetadata maps a JSON `null` to no metadata.
func normalizeMetadata(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

type CardFilter struct {
	Type     CardType `query:"type"`
	Category string   `query:"category"`
	IsActive *bool    `query:"isActive"`
}

type ListType string

// List types
const (
	ListFAQ         ListType = "faq"
	ListAchievement ListType = "achievement"
	ListFeature     ListType = "feature"
)

var ListTypes = []ListType{ListFAQ, ListAchievement, ListFeature}

func (t ListType) Valid() bool {
	for _, typ := range ListTypes {
		if t == typ {
			return true
		}
	}
	return false
}

// List is a titled text entry: an FAQ, an achievement or a feature.
type List struct {
	ID        int64     `json:"id"`
	Type      ListType  `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"isActive"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewList struct {
	Type     ListType `json:"type" validate:"required,listtype"`
	Title    string   `json:"title" validate:"required,notblank,max=200"`
	Content  string   `json:"content" validate:"required,notblank"`
	IsActive *bool    `json:"isActive"`
	Order    *int     `json:"order"`
}

func (nl *NewList) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	nl.Content = core.CleanString(nl.Content)
	return core.Validate.Struct(nl)
}

type ListUpdate struct {
	Type     *ListType `json:"type" validate:"omitempty,listtype"`
	Title    *string   `json:"title" validate:"omitempty,notblank,max=200"`
	Content  *string   `json:"content" validate:"omitempty,notblank"`
	IsActive *bool     `json:"isActive"`
	Order    *int      `json:"order"`
}

func (lu *ListUpdate) Validate() error {
	lu.Title = core.CleanStringPtr(lu.Title)
	lu.Content = core.CleanStringPtr(lu.Content)
	return core.Validate.Struct(lu)
}

func (lu ListUpdate) apply(l *List) {
	if lu.Type != nil {
		l.Type = *lu.Type
	}
	if lu.Title != nil {
		l.Title = *lu.Title
	}
	if lu.Content != nil {
		l.Content = *lu.Content
	}
	if lu.IsActive != nil {
		l.IsActive = *lu.IsActive
	}
	if lu.Order != nil {
		l.Order = *lu.Order
	}
}

type ListFilter struct {
	Type     ListType `query:"type"`
	IsActive *bool    `query:"isActive"`
}

type TeamMember struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ImageURL  *string   `json:"imageUrl"`
	Email     *string   `json:"email"`
	LinkedIn  *string   `json:"linkedin"`
	Owner     bool      `json:"owner"` // shown on the homepage
	IsActive  bool      `json:"isActive"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewTeamMember struct {
	Name     string  `json:"name" validate:"required,notblank,max=200"`
	Role     string  `json:"role" validate:"required,notblank,max=200"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=500"`
	Email    *string `json:"email" validate:"omitempty,email"`
	LinkedIn *string `json:"linkedin" validate:"omitempty,max=500"`
	Owner    *bool   `json:"owner"`
	IsActive *bool   `json:"isActive"`
	Order    *int    `json:"order"`
}

func (nm *NewTeamMember) Validate() error {
	nm.Name = core.CleanString(nm.Name)
	nm.Role = core.CleanString(nm.Role)
	nm.ImageURL = core.CleanStringPtr(nm.ImageURL)
	nm.Email = core.CleanStringPtr(nm.Email)
	nm.LinkedIn = core.CleanStringPtr(nm.LinkedIn)
	return core.Validate.Struct(nm)
}

type TeamMemberUpdate struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=200"`
	Role     *string `json:"role" validate:"omitempty,notblank,max=200"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,max=500"`
	Email    *string `json:"email" validate:"omitempty,email"`
	LinkedIn *string `json:"linkedin" validate:"omitempty,max=500"`
	Owner    *bool   `json:"owner"`
	IsActive *bool   `json:"isActive"`
	Order    *int    `json:"order"`
}

func (mu *TeamMemberUpdate) Validate() error {
	mu.Name = core.CleanStringPtr(mu.Name)
	mu.Role = core.CleanStringPtr(mu.Role)
	mu.ImageURL = core.CleanStringPtr(mu.ImageURL)
	mu.Email = core.CleanStringPtr(mu.Email)
	mu.LinkedIn = core.CleanStringPtr(mu.LinkedIn)
	return core.Validate.Struct(mu)
}

func (mu TeamMemberUpdate) apply(m *TeamMember) {
	if mu.Name != nil {
		m.Name = *mu.Name
	}
	if mu.Role != nil {
		m.Role = *mu.Role
	}
	if mu.ImageURL != nil {
		m.ImageURL = mu.ImageURL
	}
	if mu.Email != nil {
		m.Email = mu.Email
	}
	if mu.LinkedIn != nil {
		m.LinkedIn = mu.LinkedIn
	}
	if mu.Owner != nil {
		m.Owner = *mu.Owner
	}
	if mu.IsActive != nil {
		m.IsActive = *mu.IsActive
	}
	if mu.Order != nil {
		m.Order = *mu.Order
	}
}

type TeamFilter struct {
	Owner    *bool `query:"owner"`
	IsActive *bool `query:"isActive"`
}

type BlogPost struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	LinkURL       string     `json:"linkUrl"`
	Date          *time.Time `json:"date"`
	MinutesToRead *int       `json:"minutesToRead"`
	IsActive      bool       `json:"isActive"`
	Order         int        `json:"order"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type NewBlogPost struct {
	Title         string     `json:"title" validate:"required,notblank,max=200"`
	Description   *string    `json:"description"`
	LinkURL       string     `json:"linkUrl" validate:"required,url,max=500"`
	Date          *time.Time `json:"date"`
	MinutesToRead *int       `json:"minutesToRead" validate:"omitempty,min=0"`
	IsActive      *bool      `json:"isActive"`
	Order         *int       `json:"order"`
}

func (np *NewBlogPost) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanStringPtr(np.Description)
	np.LinkURL = core.CleanString(np.LinkURL)
	return core.Validate.Struct(np)
}

type BlogPostUpdate struct {
	Title         *string    `json:"title" validate:"omitempty,notblank,max=200"`
	Description   *string    `json:"description"`
	LinkURL       *string    `json:"linkUrl" validate:"omitempty,url,max=500"`
	Date          *time.Time `json:"date"`
	MinutesToRead *int       `json:"minutesToRead" validate:"omitempty,min=0"`
	IsActive      *bool      `json:"isActive"`
	Order         *int       `json:"order"`
}

func (pu *BlogPostUpdate) Validate() error {
	pu.Title = core.CleanStringPtr(pu.Title)
	pu.Description = core.CleanStringPtr(pu.Description)
	pu.LinkURL = core.CleanStringPtr(pu.LinkURL)
	return core.Validate.Struct(pu)
}

func (pu BlogPostUpdate) apply(p *BlogPost) {
	if pu.Title != nil {
		p.Title = *pu.Title
	}
	if pu.Description != nil {
		p.Description = pu.Description
	}
	if pu.LinkURL != nil {
		p.LinkURL = *pu.LinkURL
	}
	if pu.Date != nil {
		p.Date = pu.Date
	}
	if pu.MinutesToRead != nil {
		p.MinutesToRead = pu.MinutesToRead
	}
	if pu.IsActive != nil {
		p.IsActive = *pu.IsActive
	}
	if pu.Order != nil {
		p.Order = *pu.Order
	}
}

type BlogFilter struct {
	IsActive *bool `query:"isActive"`
}
