package ui

import (
	"strings"
	"testing"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile(t *testing.T, name string) models.Profile {
	t.Helper()
	p, err := models.ProfileByName(name)
	require.NoError(t, err)
	return p
}

func TestRowText(t *testing.T) {
	food := profile(t, "food")
	item := food.Seed()[0]

	main, secondary := rowText(food, item)
	assert.Equal(t, "Street Foods Around the World  ♥ 33", main)
	assert.True(t, strings.HasPrefix(secondary, "#street #international · From Bangkok"))

	dest := profile(t, "destinations")
	main, secondary = rowText(dest, dest.Seed()[2])
	assert.Equal(t, "Tropical Paradise in Bali", main)
	assert.Equal(t, "Beaches · Beaches, temples, and unforgettable sunsets.", secondary)
}

func TestRowTextEscapesMarkup(t *testing.T) {
	main, _ := rowText(profile(t, "journal"), models.ContentItem{Title: "[red]alert"})
	assert.NotEqual(t, "[red]alert", main)
	assert.Contains(t, main, "alert")
}

func TestDetailText(t *testing.T) {
	food := profile(t, "food")
	item := food.Seed()[0]

	text := detailText(food, &item)
	assert.Contains(t, text, "Mia | Aug 10, 2025")
	assert.Contains(t, text, "street, international")
	assert.Contains(t, text, "[::b]Likes:[::-] 33")
	assert.Contains(t, text, "[::b]Shares:[::-] 520")

	journal := profile(t, "journal")
	entry := models.ContentItem{Title: "Walk", Content: "Around the lake."}
	text = detailText(journal, &entry)
	assert.Contains(t, text, "[::b]Content:[::-]\nAround the lake.")
	assert.NotContains(t, text, "Shares")

	assert.Contains(t, detailText(journal, nil), "Nothing to show")
}

func TestStatusAndPageLabel(t *testing.T) {
	assert.Equal(t, "page 1/1", pageLabel(view.Projection{Page: 1}))
	assert.Equal(t, "page 2/3", pageLabel(view.Projection{Page: 2, TotalPages: 3}))

	status := statusText(profile(t, "journal"), view.Projection{Page: 1})
	assert.NotContains(t, status, "filter")
	assert.Contains(t, status, "[::b]0[::-] items")

	status = statusText(profile(t, "food"), view.Projection{Page: 1, TotalPages: 1, Filtered: make([]models.ContentItem, 4)})
	assert.Contains(t, status, "filter")
	assert.Contains(t, status, "[::b]4[::-] items")
}

func TestSlideAndTitles(t *testing.T) {
	assert.Contains(t, slideText(models.ContentItem{}, false), "No items")
	assert.Contains(t, slideText(models.ContentItem{Title: "Bali", Description: "Sun."}, true), "▶ Bali")

	assert.Equal(t, "Items", listTitle(""))
	assert.Equal(t, "Items", listTitle(models.CategoryAll))
	assert.Equal(t, "Items (Cities)", listTitle("Cities"))
}

func TestMissingText(t *testing.T) {
	assert.Equal(t, "Please fill in: title, image", missingText([]models.Field{models.FieldTitle, models.FieldImage}))
}

func TestPaletteFallsBackToLight(t *testing.T) {
	assert.Equal(t, palettes[models.ThemeLight], paletteFor("sepia"))
	assert.NotEqual(t, paletteFor(models.ThemeLight), paletteFor(models.ThemeDark))
}
