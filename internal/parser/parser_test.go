package parser

import (
	"strings"
	"testing"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grid = `<!DOCTYPE html>
<html><body>
<section class="cards">
  <article class="card featured" data-id="3" data-category="beaches" data-tags="sun, sea ,," data-author="Ava" data-date="2025-07-25">
    <img src="https://example.com/bali.jpg" alt="">
    <h3>Tropical <em>Paradise</em> in Bali</h3>
    <p>Beaches, temples,
       and unforgettable sunsets.</p>
    <p class="meta">12 likes</p>
  </article>
  <article class="cardigan"><h3>Not a card</h3></article>
  <div class="card"><h3>Wrong element</h3></div>
  <article class="card"><h3>Bare &amp; simple</h3></article>
</section>
</body></html>`

func TestParseCardsHTML(t *testing.T) {
	cards, err := ParseCardsHTML(strings.NewReader(grid))
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, Card{
		Title:    "Tropical Paradise in Bali",
		Body:     "Beaches, temples, and unforgettable sunsets.",
		Image:    "https://example.com/bali.jpg",
		Category: "beaches",
		Tags:     []string{"sun", "sea"},
		Author:   "Ava",
		Date:     "2025-07-25",
	}, cards[0])

	assert.Equal(t, "Bare & simple", cards[1].Title)
	assert.Empty(t, cards[1].Body)
	assert.Nil(t, cards[1].Tags)
}

func TestParseEmptyDocument(t *testing.T) {
	cards, err := ParseCardsHTML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardFields(t *testing.T) {
	card := Card{Title: "t", Body: "b", Image: "i", Category: "CITIES", Tags: []string{"x"}}

	f := card.Fields(models.FieldDescription)
	assert.Equal(t, "b", f.Description)
	assert.Empty(t, f.Content)
	assert.Equal(t, models.CategoryCities, f.Category)
	assert.Equal(t, []string{"x"}, f.Tags)

	f = card.Fields(models.FieldContent)
	assert.Equal(t, "b", f.Content)
	assert.Empty(t, f.Description)

	f = Card{Category: "Desert"}.Fields(models.FieldDescription)
	assert.Empty(t, f.Category)
}
