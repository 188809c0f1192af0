package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/menuhub/backend/internal/domain/shared"
)

// MaxCategoryNameLength is the longest allowed category name, in characters
const MaxCategoryNameLength = 50

// Category is a menu grouping ("mega menu") that products belong to
type Category struct {
	shared.BaseEntity
	Name string
	Pic  string
}

// NewCategory creates a new category
func NewCategory(name, pic string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := validatePic(pic); err != nil {
		return nil, err
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(now),
		Name:       name,
		Pic:        pic,
	}, nil
}

// Rename changes the category's display name
func (c *Category) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = name
	c.Touch(now)
	return nil
}

// SetPic replaces the image reference and returns the previous one
func (c *Category) SetPic(pic string, now time.Time) (string, error) {
	if err := validatePic(pic); err != nil {
		return "", err
	}
	old := c.Pic
	c.Pic = pic
	c.Touch(now)
	return old, nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewValidationError("Please add a name")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return shared.NewValidationError("Name cannot be more than %d characters", MaxCategoryNameLength)
	}
	return nil
}

func validatePic(pic string) error {
	if strings.TrimSpace(pic) == "" {
		return shared.NewValidationError("Please add a picture")
	}
	return nil
}
