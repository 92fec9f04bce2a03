package state

import (
	"testing"
	"time"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(t *testing.T, name string) Env {
	t.Helper()
	p, err := models.ProfileByName(name)
	require.NoError(t, err)
	return Env{
		Profile: p,
		Now:     func() time.Time { return time.UnixMilli(1_760_000_000_000) },
	}
}

func initial(e Env) State {
	return New(store.New(e.Profile.Seed()), models.ThemeLight)
}

func TestNewDefaults(t *testing.T) {
	s := New(store.New(nil), "")
	assert.Equal(t, models.ThemeLight, s.Theme)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, -1, s.Slide.Current())

	_, ok := s.Current()
	assert.False(t, ok)
}

func TestCreateAppendsAndResizesSlide(t *testing.T) {
	e := env(t, "destinations")
	s := initial(e)

	out := Reduce(s, Create(models.Fields{
		Title:       "Kyoto Temples",
		Description: "Quiet gardens.",
		Image:       "https://example.com/kyoto.jpg",
		Category:    models.CategoryCities,
	}), e)

	require.True(t, out.Applied)
	assert.True(t, out.ItemsChanged)
	assert.True(t, out.LengthChanged)
	assert.Equal(t, int64(5), out.Item.ID)
	assert.Equal(t, 5, out.State.Items.Len())
	assert.Equal(t, 5, out.State.Slide.Length)
	assert.Equal(t, 4, s.Items.Len(), "input state untouched")
}

func TestCreateRejectedKeepsState(t *testing.T) {
	e := env(t, "destinations")
	s := initial(e)

	out := Reduce(s, Create(models.Fields{Title: "  ", Description: "d", Image: "i"}), e)

	assert.False(t, out.Applied)
	assert.False(t, out.ItemsChanged)
	assert.Equal(t, s, out.State)
}

func TestUpdateKeepsLength(t *testing.T) {
	e := env(t, "food")
	s := initial(e)

	out := Reduce(s, Update(2, models.Fields{Title: "Pasta", Description: "d", Image: "i", Tags: []string{"italy"}}), e)

	require.True(t, out.Applied)
	assert.True(t, out.ItemsChanged)
	assert.False(t, out.LengthChanged)
	assert.Equal(t, "Pasta", out.Item.Title)
	assert.Equal(t, 22, out.Item.Likes)
}

func TestDeleteReturnsRemovedItem(t *testing.T) {
	e := env(t, "destinations")
	s := initial(e)
	s.Slide.Index = 3

	out := Reduce(s, Delete(3), e)

	require.True(t, out.Applied)
	assert.True(t, out.LengthChanged)
	assert.Equal(t, "Tropical Paradise in Bali", out.Item.Title)
	assert.Equal(t, 3, out.State.Slide.Length)
	assert.Equal(t, 0, out.State.Slide.Index, "index clamps when it falls off the end")

	out = Reduce(out.State, Delete(3), e)
	assert.False(t, out.Applied)
}

func TestLikeIncrementsOnce(t *testing.T) {
	e := env(t, "food")
	s := initial(e)

	out := Reduce(s, Like(4), e)

	require.True(t, out.Applied)
	assert.Equal(t, 43, out.Item.Likes)
	assert.False(t, out.LengthChanged)

	assert.False(t, Reduce(s, Like(99), e).Applied)
}

func TestShareDoesNotChangeItems(t *testing.T) {
	e := env(t, "food")
	s := initial(e)

	out := Reduce(s, Share(1), e)

	assert.True(t, out.Applied)
	assert.False(t, out.ItemsChanged)
	assert.Equal(t, "Street Foods Around the World", out.Item.Title)
	assert.Equal(t, 520, out.Item.Shares)
}

func TestSearchAndFilterResetPage(t *testing.T) {
	e := env(t, "food")
	s := initial(e)

	s = Reduce(s, Page(3), e).State
	assert.Equal(t, 3, s.Page)

	s = Reduce(s, Search("sushi"), e).State
	assert.Equal(t, "sushi", s.Search)
	assert.Equal(t, 1, s.Page)

	s = Reduce(s, Page(2), e).State
	s = Reduce(s, Filter("japan"), e).State
	assert.Equal(t, "japan", s.Filter)
	assert.Equal(t, 1, s.Page)

	v := s.View(e.Profile)
	require.Len(t, v.Visible, 1)
	assert.Equal(t, "The Art of Sushi Making", v.Visible[0].Title)
}

func TestToggleTheme(t *testing.T) {
	e := env(t, "journal")
	s := initial(e)

	out := Reduce(s, ToggleTheme(), e)
	assert.True(t, out.ThemeChanged)
	assert.False(t, out.ItemsChanged)
	assert.Equal(t, models.ThemeDark, out.State.Theme)

	out = Reduce(out.State, ToggleTheme(), e)
	assert.Equal(t, models.ThemeLight, out.State.Theme)
}

func TestTickWraps(t *testing.T) {
	e := env(t, "destinations")
	s := initial(e)

	var seen []string
	for i := 0; i < 5; i++ {
		cur, ok := s.Current()
		require.True(t, ok)
		seen = append(seen, cur.Title)
		s = Reduce(s, Tick(), e).State
	}
	assert.Equal(t, seen[0], seen[4])
	assert.Equal(t, 1, s.Slide.Index)
}

func TestTickOnEmptyStaysAtZero(t *testing.T) {
	e := env(t, "journal")
	s := initial(e)

	s = Reduce(s, Tick(), e).State
	assert.Equal(t, 0, s.Slide.Index)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestJournalTimestampIDs(t *testing.T) {
	e := env(t, "journal")
	s := initial(e)

	out := Reduce(s, Create(models.Fields{Title: "Morning", Content: "Slept well."}), e)
	require.True(t, out.Applied)
	assert.Equal(t, int64(1_760_000_000_000), out.Item.ID)

	out = Reduce(out.State, Create(models.Fields{Title: "Evening", Content: "Walked."}), e)
	require.True(t, out.Applied)
	assert.Equal(t, int64(1_760_000_000_001), out.Item.ID, "same clock reading still yields a fresh id")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "toggle_theme", KindToggleTheme.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
