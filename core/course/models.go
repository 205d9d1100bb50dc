package course

import (
	"encoding/json"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/trezcool/itsite/core"
)

type Course struct {
	ID          string    `json:"id"` // slug
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Duration    *string   `json:"duration"`
	Mode        *string   `json:"mode"`
	Level       *string   `json:"level"`
	Price       *string   `json:"price"`
	Features    []string  `json:"features"` // nil and empty are distinct
	IsActive    bool      `json:"isActive"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type NewCourse struct {
	ID          string   `json:"id" validate:"omitempty,slug"`
	Title       string   `json:"title" validate:"required,notblank,max=200"`
	Description *string  `json:"description"`
	Duration    *string  `json:"duration" validate:"omitempty,max=100"`
	Mode        *string  `json:"mode" validate:"omitempty,max=100"`
	Level       *string  `json:"level" validate:"omitempty,max=100"`
	Price       *string  `json:"price" validate:"omitempty,max=100"`
	Features    []string `json:"features" validate:"omitempty,dive,notblank"`
	IsActive    *bool    `json:"isActive"`
	Order       *int     `json:"order"`
}

// Validate cleans the input and derives the ID from the title when none is given.
func (nc *NewCourse) Validate() error {
	nc.ID = core.CleanString(nc.ID, true /* lower */)
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanStringPtr(nc.Description)
	nc.Duration = core.CleanStringPtr(nc.Duration)
	nc.Mode = core.CleanStringPtr(nc.Mode)
	nc.Level = core.CleanStringPtr(nc.Level)
	nc.Price = core.CleanStringPtr(nc.Price)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	if nc.ID == "" {
		id, err := slug.Normalize(nc.Title)
		if err != nil || id == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "cannot derive an id from this title"})
		}
		nc.ID = id
	}
	return nil
}

// UpdateCourse holds the fields to change. Features of `null` clears them.
type UpdateCourse struct {
	Title       *string         `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string         `json:"description"`
	Duration    *string         `json:"duration" validate:"omitempty,max=100"`
	Mode        *string         `json:"mode" validate:"omitempty,max=100"`
	Level       *string         `json:"level" validate:"omitempty,max=100"`
	Price       *string         `json:"price" validate:"omitempty,max=100"`
	Features    json.RawMessage `json:"features" validate:"omitempty,json"`
	IsActive    *bool           `json:"isActive"`
	Order       *int            `json:"order"`

	features []string
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanStringPtr(uc.Title)
	uc.Description = core.CleanStringPtr(uc.Description)
	uc.Duration = core.CleanStringPtr(uc.Duration)
	uc.Mode = core.CleanStringPtr(uc.Mode)
	uc.Level = core.CleanStringPtr(uc.Level)
	uc.Price = core.CleanStringPtr(uc.Price)
	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	return uc.decodeFeatures()
}

func (uc *UpdateCourse) decodeFeatures() error {
	uc.features = nil
	if len(uc.Features) == 0 || string(uc.Features) == "null" {
		return nil
	}
	invalid := core.NewValidationError(nil, core.FieldError{Field: "features", Error: "features must be a list of non-blank strings"})
	var features []string
	if err := json.Unmarshal(uc.Features, &features); err != nil {
		return invalid
	}
	for _, f := range features {
		if core.CleanString(f) == "" {
			return invalid
		}
	}
	uc.features = features
	return nil
}

func (uc UpdateCourse) apply(c *Course) {
	if uc.Title != nil {
		c.Title = *uc.Title
	}
	if uc.Description != nil {
		c.Description = uc.Description
	}
	if uc.Duration != nil {
		c.Duration = uc.Duration
	}
	if uc.Mode != nil {
		c.Mode = uc.Mode
	}
	if uc.Level != nil {
		c.Level = uc.Level
	}
	if uc.Price != nil {
		c.Price = uc.Price
	}
	if len(uc.Features) > 0 {
		c.Features = uc.features
	}
	if uc.IsActive != nil {
		c.IsActive = *uc.IsActive
	}
	if uc.Order != nil {
		c.Order = *uc.Order
	}
}

type QueryFilter struct {
	IsActive *bool `query:"isActive"`
}

// Schedule is the timetable of a Course, one per course.
type Schedule struct {
	CourseID    string     `json:"courseId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Duration    *string    `json:"duration"`
	Schedule    *string    `json:"schedule"` // free text
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ScheduleData struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Duration    *string    `json:"duration" validate:"omitempty,max=100"`
	Schedule    *string    `json:"schedule"`
}

func (sd *ScheduleData) Validate() error {
	sd.Title = core.CleanString(sd.Title)
	sd.Description = core.CleanStringPtr(sd.Description)
	sd.Duration = core.CleanStringPtr(sd.Duration)
	sd.Schedule = core.CleanStringPtr(sd.Schedule)

	if err := core.Validate.Struct(sd); err != nil {
		return err
	}
	if sd.StartDate != nil && sd.EndDate != nil && sd.EndDate.Before(*sd.StartDate) {
		return core.NewValidationError(nil, core.FieldError{Field: "endDate", Error: "must not be before startDate"})
	}
	return nil
}
