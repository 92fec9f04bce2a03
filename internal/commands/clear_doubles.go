package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dastanaron/echohive/internal/service"
)

// ClearDoublesCommand handles removal of items with repeated titles
type ClearDoublesCommand struct {
	svc *service.ContentService
	out io.Writer
}

// NewClearDoublesCommand creates a new clear doubles command
func NewClearDoublesCommand(svc *service.ContentService, out io.Writer) *ClearDoublesCommand {
	return &ClearDoublesCommand{svc: svc, out: out}
}

// Execute removes items whose title (case-insensitive) was already seen,
// keeping the first one in collection order
func (c *ClearDoublesCommand) Execute(ctx context.Context, confirm service.Confirm) error {
	seen := make(map[string]int64) // title -> id of item to keep
	var doubles []int64

	for _, it := range c.svc.Items() {
		key := strings.ToLower(strings.TrimSpace(it.Title))
		if keep, exists := seen[key]; exists {
			doubles = append(doubles, it.ID)
			fmt.Fprintf(c.out, "Found duplicate: '%s' (ID: %d, keeping ID: %d)\n", it.Title, it.ID, keep)
			continue
		}
		seen[key] = it.ID
	}

	if len(doubles) == 0 {
		fmt.Fprintln(c.out, "No duplicate items found.")
		return nil
	}

	deleted := 0
	for _, id := range doubles {
		if !c.svc.Delete(ctx, id, confirm) {
			fmt.Fprintf(c.out, "Skipped ID %d.\n", id)
			continue
		}
		deleted++
	}

	fmt.Fprintf(c.out, "Deleted %d duplicate item(s).\n", deleted)
	return nil
}
