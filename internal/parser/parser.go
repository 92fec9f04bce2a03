package parser

import (
	"io"
	"strings"

	"github.com/dastanaron/echohive/internal/models"

	"golang.org/x/net/html"
)

// Card is one <article class="card"> read from an HTML export
type Card struct {
	Title    string
	Body     string
	Image    string
	Category string
	Tags     []string
	Author   string
	Date     string
}

// Fields converts the card into form input, placing the body text in the
// field the profile treats as its body
func (c Card) Fields(body models.Field) models.Fields {
	f := models.Fields{
		Title:  c.Title,
		Image:  c.Image,
		Tags:   append([]string(nil), c.Tags...),
		Author: c.Author,
		Date:   c.Date,
	}
	if cat, ok := models.ParseCategory(c.Category); ok {
		f.Category = cat
	}
	if body == models.FieldContent {
		f.Content = c.Body
	} else {
		f.Description = c.Body
	}
	return f
}

// ParseCardsHTML parses an HTML card grid
func ParseCardsHTML(r io.Reader) ([]Card, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var cards []Card

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if isCard(n) {
			cards = append(cards, readCard(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return cards, nil
}

func isCard(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "article" {
		return false
	}
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == "card" {
			return true
		}
	}
	return false
}

func readCard(n *html.Node) Card {
	card := Card{
		Category: attr(n, "data-category"),
		Tags:     models.ParseTags(attr(n, "data-tags")),
		Author:   attr(n, "data-author"),
		Date:     attr(n, "data-date"),
	}

	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch c.Data {
			case "h3":
				if card.Title == "" {
					card.Title = text(c)
				}
				return
			case "p":
				// First paragraph only, later ones carry meta lines
				if card.Body == "" {
					card.Body = text(c)
				}
				return
			case "img":
				if card.Image == "" {
					card.Image = attr(c, "src")
				}
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	return card
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// text concatenates all text below n, collapsing whitespace
func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
