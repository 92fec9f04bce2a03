package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Category represents the destination category of a travel entry
type Category string

const (
	CategoryMountains Category = "Mountains"
	CategoryBeaches   Category = "Beaches"
	CategoryCities    Category = "Cities"

	// CategoryAll disables category filtering
	CategoryAll = "All"
)

// Categories returns the closed set of destination categories in display order
func Categories() []Category {
	return []Category{CategoryMountains, CategoryBeaches, CategoryCities}
}

// ParseCategory matches s case-insensitively against the known categories
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// ContentItem represents one blog or destination entry.
// JSON names are the persisted contract and must not change.
type ContentItem struct {
	ID          int64    `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Content     string   `json:"content,omitempty" yaml:"content,omitempty"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
	Category    Category `json:"category,omitempty" yaml:"category,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Likes       int      `json:"likes" yaml:"likes"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Date        string   `json:"date,omitempty" yaml:"date,omitempty"`
	Shares      int      `json:"shares,omitempty" yaml:"shares,omitempty"`
}

// Body returns whichever free-text field the item carries
func (c ContentItem) Body() string {
	if c.Description != "" {
		return c.Description
	}
	return c.Content
}

// HasTag reports whether tag is one of the item's tags (exact match)
func (c ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Fields returns the editable subset of the item
func (c ContentItem) Fields() Fields {
	return Fields{
		Title:       c.Title,
		Description: c.Description,
		Content:     c.Content,
		Image:       c.Image,
		Category:    c.Category,
		Tags:        append([]string(nil), c.Tags...),
		Author:      c.Author,
		Date:        c.Date,
	}
}

// Clone returns a deep copy of the item
func (c ContentItem) Clone() ContentItem {
	if c.Tags != nil {
		c.Tags = append([]string(nil), c.Tags...)
	}
	return c
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// DisplayDate parses the stored date lazily; unparseable values are shown as-is
func (c ContentItem) DisplayDate() string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, c.Date); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return c.Date
}

// Fields holds the user-editable part of a ContentItem.
// It doubles as the form edit buffer and is never persisted on its own.
type Fields struct {
	Title       string
	Description string
	Content     string
	Image       string
	Category    Category
	Tags        []string
	Author      string
	Date        string
}

// Value returns the named field, used for required-field checks
func (f Fields) Value(name Field) string {
	switch name {
	case FieldTitle:
		return f.Title
	case FieldDescription:
		return f.Description
	case FieldContent:
		return f.Content
	case FieldImage:
		return f.Image
	}
	return ""
}

// Field names an editable text field
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldContent     Field = "content"
	FieldImage       Field = "image"
)

// ParseTags splits a comma separated tag list, trimming blanks.
// Returns nil when no tag remains.
func ParseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Shorten truncates text to max runes, ending with an ellipsis when cut
func Shorten(text string, max int) string {
	if max < 1 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max-1]) + "…"
}
