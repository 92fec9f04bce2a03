package ui

import (
	"fmt"
	"strings"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/view"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// excerptLength is how much body text a list row shows
const excerptLength = 120

// palette holds the colors of one theme
type palette struct {
	background tcell.Color
	text       tcell.Color
	secondary  tcell.Color
	border     tcell.Color
	accent     tcell.Color
	field      tcell.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeLight: {
		background: tcell.ColorWhite,
		text:       tcell.ColorBlack,
		secondary:  tcell.ColorDimGray,
		border:     tcell.ColorDarkSlateGray,
		accent:     tcell.ColorDarkOrange,
		field:      tcell.ColorLightGray,
	},
	models.ThemeDark: {
		background: tcell.ColorBlack,
		text:       tcell.ColorWhite,
		secondary:  tcell.ColorSilver,
		border:     tcell.ColorSteelBlue,
		accent:     tcell.ColorGold,
		field:      tcell.ColorDarkSlateGray,
	},
}

func paletteFor(t models.Theme) palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[models.ThemeLight]
}

// rowText returns the main and secondary line of a list row
func rowText(p models.Profile, it models.ContentItem) (string, string) {
	main := tview.Escape(it.Title)
	if it.Likes > 0 {
		main = fmt.Sprintf("%s  ♥ %d", main, it.Likes)
	}

	var meta []string
	switch p.Filter {
	case models.FilterCategory:
		if it.Category != "" {
			meta = append(meta, string(it.Category))
		}
	case models.FilterTag:
		if len(it.Tags) > 0 {
			meta = append(meta, "#"+strings.Join(it.Tags, " #"))
		}
	}
	if body := models.Shorten(it.Body(), excerptLength); body != "" {
		meta = append(meta, body)
	}
	return main, tview.Escape(strings.Join(meta, " · "))
}

// detailText renders the details pane for an item
func detailText(p models.Profile, it *models.ContentItem) string {
	if it == nil {
		return "[::d]Nothing to show[::-]"
	}

	var sb strings.Builder
	section := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&sb, "[::b]%s:[::-]\n%s\n\n", label, tview.Escape(value))
	}

	section("Title", it.Title)
	switch p.Filter {
	case models.FilterCategory:
		section("Category", string(it.Category))
	case models.FilterTag:
		section("Tags", strings.Join(it.Tags, ", "))
	}
	if it.Author != "" || it.Date != "" {
		section("By", byline(*it))
	}
	section(bodyLabel(p), it.Body())
	section("Image", it.Image)
	fmt.Fprintf(&sb, "[::b]Likes:[::-] %d", it.Likes)
	if it.Shares > 0 {
		fmt.Fprintf(&sb, "   [::b]Shares:[::-] %d", it.Shares)
	}
	return sb.String()
}

func byline(it models.ContentItem) string {
	parts := make([]string, 0, 2)
	if it.Author != "" {
		parts = append(parts, it.Author)
	}
	if it.Date != "" {
		parts = append(parts, it.DisplayDate())
	}
	return strings.Join(parts, " | ")
}

func bodyLabel(p models.Profile) string {
	if p.Body == models.FieldContent {
		return "Content"
	}
	return "Description"
}

// slideText renders the slideshow bar
func slideText(it models.ContentItem, ok bool) string {
	if !ok {
		return " [::d]No items to show[::-]"
	}
	return fmt.Sprintf(" [::b]▶ %s[::-]  %s", tview.Escape(it.Title), tview.Escape(models.Shorten(it.Body(), 80)))
}

// listTitle names the list pane after the active filter
func listTitle(filter string) string {
	if filter == "" || filter == models.CategoryAll {
		return "Items"
	}
	return fmt.Sprintf("Items (%s)", tview.Escape(filter))
}

// pageLabel renders "page N/M", showing at least one page
func pageLabel(v view.Projection) string {
	total := v.TotalPages
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("page %d/%d", v.Page, total)
}

func statusText(p models.Profile, v view.Projection) string {
	keys := "[::b]/[::-] search  [::b]a[::-] add  [::b]e[::-] edit  [::b]d[::-] del  [::b]l[::-] like  [::b]s[::-] share  [::b]t[::-] theme  [::b]PgUp/PgDn[::-] page  [::b]q[::-] quit"
	if p.Filter != models.FilterNone {
		keys = "[::b]f[::-] filter  " + keys
	}
	return fmt.Sprintf("%s   [::b]%d[::-] items  %s", keys, len(v.Filtered), pageLabel(v))
}

// missingText lists the fields a rejected save still needs
func missingText(missing []models.Field) string {
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}
	return "Please fill in: " + strings.Join(names, ", ")
}
