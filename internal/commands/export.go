package commands

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/persistence"
	"github.com/dastanaron/echohive/internal/service"

	"gopkg.in/yaml.v3"
)

// ExportCommand handles item export to html, json or yaml files
type ExportCommand struct {
	svc *service.ContentService
	out io.Writer
}

// NewExportCommand creates a new export command
func NewExportCommand(svc *service.ContentService, out io.Writer) *ExportCommand {
	return &ExportCommand{svc: svc, out: out}
}

// Execute exports the collection, in order, to filePath
func (c *ExportCommand) Execute(filePath string, format Format) error {
	items := c.svc.Items()

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	if err := c.Write(file, format, items); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Exported %d item(s) to %s\n", len(items), filePath)
	return nil
}

// Write encodes items to w in the given format
func (c *ExportCommand) Write(w io.Writer, format Format, items []models.ContentItem) error {
	switch format {
	case FormatHTML:
		return c.writeHTML(w, items)
	case FormatJSON:
		data, err := persistence.Encode(items)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = io.WriteString(w, data+"\n")
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if items == nil {
			items = []models.ContentItem{}
		}
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func (c *ExportCommand) writeHTML(w io.Writer, items []models.ContentItem) error {
	title := html.EscapeString(c.svc.Profile().Title)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "<!DOCTYPE html>\n")
	fmt.Fprintf(bw, "<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", title)
	fmt.Fprintf(bw, "<h1>%s</h1>\n", title)
	fmt.Fprintf(bw, "<section class=\"cards\">\n")

	for _, it := range items {
		writeCard(bw, it)
	}

	fmt.Fprintf(bw, "</section>\n</body>\n</html>\n")
	return bw.Flush()
}

// writeCard writes a single card
func writeCard(w io.Writer, it models.ContentItem) {
	attrs := []string{fmt.Sprintf("data-id=\"%d\"", it.ID)}
	if it.Category != "" {
		attrs = append(attrs, fmt.Sprintf("data-category=\"%s\"", html.EscapeString(string(it.Category))))
	}
	if len(it.Tags) > 0 {
		attrs = append(attrs, fmt.Sprintf("data-tags=\"%s\"", html.EscapeString(strings.Join(it.Tags, ","))))
	}
	if it.Author != "" {
		attrs = append(attrs, fmt.Sprintf("data-author=\"%s\"", html.EscapeString(it.Author)))
	}
	if it.Date != "" {
		attrs = append(attrs, fmt.Sprintf("data-date=\"%s\"", html.EscapeString(it.Date)))
	}

	fmt.Fprintf(w, "  <article class=\"card\" %s>\n", strings.Join(attrs, " "))
	if it.Image != "" {
		fmt.Fprintf(w, "    <img src=\"%s\" alt=\"%s\">\n", html.EscapeString(it.Image), html.EscapeString(it.Title))
	}
	fmt.Fprintf(w, "    <h3>%s</h3>\n", html.EscapeString(it.Title))
	fmt.Fprintf(w, "    <p>%s</p>\n", html.EscapeString(it.Body()))
	fmt.Fprintf(w, "    <p class=\"meta\">%d likes</p>\n", it.Likes)
	fmt.Fprintf(w, "  </article>\n")
}
