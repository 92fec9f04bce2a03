// Package state is the pure update function of the content controller:
// Reduce(state, intent) returns the next state without side effects.
package state

import (
	"time"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/rotation"
	"github.com/dastanaron/echohive/internal/store"
	"github.com/dastanaron/echohive/internal/view"
)

// Kind identifies a user or timer intent
type Kind uint8

const (
	KindCreate Kind = iota + 1
	KindUpdate
	KindDelete
	KindLike
	KindShare
	KindSearch
	KindFilter
	KindPage
	KindToggleTheme
	KindTick
)

var kindNames = map[Kind]string{
	KindCreate:      "create",
	KindUpdate:      "update",
	KindDelete:      "delete",
	KindLike:        "like",
	KindShare:       "share",
	KindSearch:      "search",
	KindFilter:      "filter",
	KindPage:        "page",
	KindToggleTheme: "toggle_theme",
	KindTick:        "tick",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Intent is one inbound event
type Intent struct {
	Kind   Kind
	ID     int64
	Fields models.Fields
	Text   string
	Page   int
}

// Create builds a create intent
func Create(f models.Fields) Intent { return Intent{Kind: KindCreate, Fields: f} }

// Update builds an update intent
func Update(id int64, f models.Fields) Intent { return Intent{Kind: KindUpdate, ID: id, Fields: f} }

// Delete builds a delete intent
func Delete(id int64) Intent { return Intent{Kind: KindDelete, ID: id} }

// Like builds a like intent
func Like(id int64) Intent { return Intent{Kind: KindLike, ID: id} }

// Share builds a share intent
func Share(id int64) Intent { return Intent{Kind: KindShare, ID: id} }

// Search builds a search-text-changed intent
func Search(text string) Intent { return Intent{Kind: KindSearch, Text: text} }

// Filter builds a filter-changed intent
func Filter(value string) Intent { return Intent{Kind: KindFilter, Text: value} }

// Page builds a page-changed intent
func Page(page int) Intent { return Intent{Kind: KindPage, Page: page} }

// ToggleTheme builds a theme toggle intent
func ToggleTheme() Intent { return Intent{Kind: KindToggleTheme} }

// Tick builds a rotation timer intent
func Tick() Intent { return Intent{Kind: KindTick} }

// State is the whole controller state
type State struct {
	Items  store.Collection
	Theme  models.Theme
	Search string
	Filter string
	Page   int
	Slide  rotation.Rotator
}

// New builds the initial state around a loaded collection
func New(items store.Collection, theme models.Theme) State {
	if theme == "" {
		theme = models.ThemeLight
	}
	return State{
		Items: items,
		Theme: theme,
		Page:  1,
		Slide: rotation.Rotator{}.Resize(items.Len()),
	}
}

// View projects the current page for the profile
func (s State) View(p models.Profile) view.Projection {
	return view.Project(s.Items.Items(), view.QueryFor(p, s.Search, s.Filter, s.Page))
}

// Current returns the item under the slideshow cursor
func (s State) Current() (models.ContentItem, bool) {
	i := s.Slide.Current()
	if i < 0 {
		return models.ContentItem{}, false
	}
	items := s.Items.Items()
	if i >= len(items) {
		return models.ContentItem{}, false
	}
	return items[i], true
}

// Env carries the inputs Reduce needs besides state and intent
type Env struct {
	Profile models.Profile
	Now     func() time.Time
}

// Outcome describes what an intent did
type Outcome struct {
	State State
	// Applied is false when the intent was a no-op (invalid input, unknown id).
	Applied       bool
	ItemsChanged  bool
	ThemeChanged  bool
	LengthChanged bool
	// Item is the created, updated, liked or shared item.
	Item models.ContentItem
}

// Reduce applies one intent
func Reduce(s State, in Intent, env Env) Outcome {
	pol := store.PolicyFor(env.Profile)
	pol.Now = env.Now

	out := Outcome{State: s}

	switch in.Kind {
	case KindCreate:
		items, item, ok := s.Items.Create(in.Fields, pol)
		if ok {
			out.setItems(items)
			out.Item = item
		}
	case KindUpdate:
		if items, ok := s.Items.Update(in.ID, in.Fields, pol); ok {
			out.setItems(items)
			out.Item, _ = items.Get(in.ID)
		}
	case KindDelete:
		if items, ok := s.Items.Delete(in.ID); ok {
			out.Item, _ = s.Items.Get(in.ID)
			out.setItems(items)
		}
	case KindLike:
		if items, ok := s.Items.Like(in.ID); ok {
			out.setItems(items)
			out.Item, _ = items.Get(in.ID)
		}
	case KindShare:
		out.Item, out.Applied = s.Items.Get(in.ID)
	case KindSearch:
		out.State.Search = in.Text
		out.State.Page = 1
		out.Applied = true
	case KindFilter:
		out.State.Filter = in.Text
		out.State.Page = 1
		out.Applied = true
	case KindPage:
		out.State.Page = in.Page
		out.Applied = true
	case KindToggleTheme:
		out.State.Theme = s.Theme.Toggle()
		out.ThemeChanged = true
		out.Applied = true
	case KindTick:
		out.State.Slide = s.Slide.Advance()
		out.Applied = true
	}
	return out
}

func (o *Outcome) setItems(items store.Collection) {
	before := o.State.Items.Len()
	o.State.Items = items
	o.State.Slide = o.State.Slide.Resize(items.Len())
	o.Applied = true
	o.ItemsChanged = true
	o.LengthChanged = items.Len() != before
}
