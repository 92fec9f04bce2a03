// Package view derives the visible page of items from a collection.
package view

import (
	"strings"

	"github.com/dastanaron/echohive/internal/models"
)

// Query describes what the user is looking at
type Query struct {
	Search     string
	Filter     string
	FilterMode models.FilterMode
	SearchBody bool
	Page       int
	PageSize   int
}

// QueryFor fills the profile-dependent parts of a query
func QueryFor(p models.Profile, search, filter string, page int) Query {
	return Query{
		Search:     search,
		Filter:     filter,
		FilterMode: p.Filter,
		SearchBody: p.SearchBody,
		Page:       page,
		PageSize:   p.PageSize,
	}
}

// Projection is the result of applying a Query
type Projection struct {
	Filtered   []models.ContentItem
	Visible    []models.ContentItem
	TotalPages int
	Page       int
}

// Project filters, then paginates items. The input is never modified and
// the relative order of items is kept.
func Project(items []models.ContentItem, q Query) Projection {
	size := q.PageSize
	if size < 1 {
		size = 1
	}

	filtered := make([]models.ContentItem, 0, len(items))
	for _, it := range items {
		if Matches(it, q) {
			filtered = append(filtered, it.Clone())
		}
	}

	p := Projection{
		Filtered:   filtered,
		TotalPages: (len(filtered) + size - 1) / size,
		Page:       q.Page,
		Visible:    []models.ContentItem{},
	}

	if q.Page < 1 {
		return p
	}
	start := (q.Page - 1) * size
	if start >= len(filtered) {
		return p
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Visible = filtered[start:end:end]
	return p
}

// Matches reports whether an item passes both the search and the filter
func Matches(it models.ContentItem, q Query) bool {
	return matchesSearch(it, q) && matchesFilter(it, q)
}

func matchesSearch(it models.ContentItem, q Query) bool {
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	if strings.Contains(strings.ToLower(it.Title), needle) {
		return true
	}
	return q.SearchBody && strings.Contains(strings.ToLower(it.Body()), needle)
}

func matchesFilter(it models.ContentItem, q Query) bool {
	if q.Filter == "" || q.Filter == models.CategoryAll {
		return true
	}
	switch q.FilterMode {
	case models.FilterCategory:
		return string(it.Category) == q.Filter
	case models.FilterTag:
		return it.HasTag(q.Filter)
	}
	return true
}

// AllTags returns every distinct tag in first-seen order
func AllTags(items []models.ContentItem) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, it := range items {
		for _, t := range it.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// FilterOptions lists the values offered by the filter selector of a profile
func FilterOptions(p models.Profile, items []models.ContentItem) []string {
	switch p.Filter {
	case models.FilterCategory:
		opts := []string{models.CategoryAll}
		for _, c := range models.Categories() {
			opts = append(opts, string(c))
		}
		return opts
	case models.FilterTag:
		return append([]string{models.CategoryAll}, AllTags(items)...)
	}
	return nil
}
