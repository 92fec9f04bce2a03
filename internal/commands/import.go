package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/parser"
	"github.com/dastanaron/echohive/internal/persistence"
	"github.com/dastanaron/echohive/internal/service"

	"gopkg.in/yaml.v3"
)

// ImportCommand handles item import from html, json or yaml files
type ImportCommand struct {
	svc *service.ContentService
	out io.Writer
}

// NewImportCommand creates a new import command
func NewImportCommand(svc *service.ContentService, out io.Writer) *ImportCommand {
	return &ImportCommand{svc: svc, out: out}
}

// Execute imports items from a file. Every item goes through Create, so
// blank required fields are skipped and fresh ids are issued.
func (c *ImportCommand) Execute(ctx context.Context, filePath string) error {
	format, err := FormatFromPath(filePath)
	if err != nil {
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	input, err := c.read(file, format)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", format, err)
	}

	imported := 0
	for _, f := range input {
		if _, ok := c.svc.Create(ctx, f); !ok {
			missing := c.svc.Profile().Missing(f)
			fmt.Fprintf(c.out, "Warning: skipped '%s': missing %v\n", f.Title, missing)
			continue
		}
		imported++
	}

	fmt.Fprintf(c.out, "Imported %d of %d item(s).\n", imported, len(input))
	return nil
}

func (c *ImportCommand) read(r io.Reader, format Format) ([]models.Fields, error) {
	switch format {
	case FormatHTML:
		cards, err := parser.ParseCardsHTML(r)
		if err != nil {
			return nil, err
		}
		body := c.svc.Profile().Body
		fields := make([]models.Fields, 0, len(cards))
		for _, card := range cards {
			fields = append(fields, card.Fields(body))
		}
		return fields, nil

	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		items, err := persistence.Decode(string(data))
		if err != nil {
			return nil, err
		}
		return toFields(items), nil

	case FormatYAML:
		var items []models.ContentItem
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && err != io.EOF {
			return nil, err
		}
		return toFields(items), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func toFields(items []models.ContentItem) []models.Fields {
	fields := make([]models.Fields, 0, len(items))
	for _, it := range items {
		fields = append(fields, it.Fields())
	}
	return fields
}
