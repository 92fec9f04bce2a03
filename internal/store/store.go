// Package store holds the ordered content collection and its mutation rules.
//
// Collection is a value: every mutator returns a new Collection and leaves
// the receiver untouched, so earlier snapshots stay valid for rendering.
package store

import (
	"time"

	"github.com/dastanaron/echohive/internal/models"
)

// Policy carries the per-profile create rules
type Policy struct {
	Insert   models.InsertPosition
	IDs      models.IDStrategy
	Required []models.Field
	// Now is the clock used by timestamp IDs; time.Now when nil
	Now func() time.Time
}

// PolicyFor builds the create policy of a profile
func PolicyFor(p models.Profile) Policy {
	return Policy{
		Insert:   p.Insert,
		IDs:      p.IDs,
		Required: p.Required,
	}
}

func (p Policy) missing(f models.Fields) bool {
	return len(models.Profile{Required: p.Required}.Missing(f)) > 0
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Collection is an immutable ordered sequence of content items.
// nextID is a high-water mark: it is greater than every ID ever issued,
// so IDs are never reused after deletion.
type Collection struct {
	items  []models.ContentItem
	nextID int64
}

// New builds a collection from items
func New(items []models.ContentItem) Collection {
	return Restore(items, 0)
}

// Restore builds a collection from persisted items and a persisted
// high-water mark. The mark is raised above the largest ID present.
func Restore(items []models.ContentItem, nextID int64) Collection {
	c := Collection{items: make([]models.ContentItem, len(items)), nextID: nextID}
	for i, it := range items {
		c.items[i] = it.Clone()
		if it.ID >= c.nextID {
			c.nextID = it.ID + 1
		}
	}
	if c.nextID < 1 {
		c.nextID = 1
	}
	return c
}

// Items returns a deep copy of the ordered items
func (c Collection) Items() []models.ContentItem {
	out := make([]models.ContentItem, len(c.items))
	for i, it := range c.items {
		out[i] = it.Clone()
	}
	return out
}

// Len returns the number of items
func (c Collection) Len() int {
	return len(c.items)
}

// NextID returns the ID high-water mark
func (c Collection) NextID() int64 {
	if c.nextID < 1 {
		return 1
	}
	return c.nextID
}

// Get returns the item with the given id
func (c Collection) Get(id int64) (models.ContentItem, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i].Clone(), true
	}
	return models.ContentItem{}, false
}

func (c Collection) index(id int64) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Collection) clone() Collection {
	return Collection{
		items:  append([]models.ContentItem(nil), c.items...),
		nextID: c.NextID(),
	}
}

func (c Collection) issueID(p Policy) int64 {
	next := c.NextID()
	if p.IDs == models.IDTimestamp {
		if ts := p.now().UnixMilli(); ts > next {
			return ts
		}
	}
	return next
}

// Create inserts a new item built from f.
// Returns false, leaving the collection unchanged, when a required field is blank.
func (c Collection) Create(f models.Fields, p Policy) (Collection, models.ContentItem, bool) {
	if p.missing(f) {
		return c, models.ContentItem{}, false
	}

	item := apply(models.ContentItem{ID: c.issueID(p)}, f)

	out := Collection{nextID: item.ID + 1}
	out.items = make([]models.ContentItem, 0, len(c.items)+1)
	if p.Insert == models.InsertPrepend {
		out.items = append(out.items, item)
		out.items = append(out.items, c.items...)
	} else {
		out.items = append(out.items, c.items...)
		out.items = append(out.items, item)
	}
	return out, item.Clone(), true
}

// Update replaces the editable fields of the item with the given id.
// ID, likes, shares and position are kept. Unknown ids and blank
// required fields leave the collection unchanged.
func (c Collection) Update(id int64, f models.Fields, p Policy) (Collection, bool) {
	i := c.index(id)
	if i < 0 || p.missing(f) {
		return c, false
	}
	out := c.clone()
	out.items[i] = apply(out.items[i], f)
	return out, true
}

// Delete removes the item with the given id
func (c Collection) Delete(id int64) (Collection, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	out := Collection{nextID: c.NextID()}
	out.items = make([]models.ContentItem, 0, len(c.items)-1)
	out.items = append(out.items, c.items[:i]...)
	out.items = append(out.items, c.items[i+1:]...)
	return out, true
}

// Like adds exactly one like to the item with the given id
func (c Collection) Like(id int64) (Collection, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	out := c.clone()
	out.items[i].Likes++
	return out, true
}

func apply(it models.ContentItem, f models.Fields) models.ContentItem {
	it.Title = f.Title
	it.Description = f.Description
	it.Content = f.Content
	it.Image = f.Image
	it.Category = f.Category
	it.Tags = nil
	if len(f.Tags) > 0 {
		it.Tags = append([]string(nil), f.Tags...)
	}
	it.Author = f.Author
	it.Date = f.Date
	return it
}
