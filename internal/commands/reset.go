package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dastanaron/echohive/internal/service"
)

// ResetCommand drops the persisted collection so the seed comes back
type ResetCommand struct {
	svc *service.ContentService
	out io.Writer
}

// NewResetCommand creates a new reset command
func NewResetCommand(svc *service.ContentService, out io.Writer) *ResetCommand {
	return &ResetCommand{svc: svc, out: out}
}

// Execute resets the collection; the theme is kept
func (c *ResetCommand) Execute(ctx context.Context) error {
	if err := c.svc.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Collection reset, %d seed item(s) restored.\n", len(c.svc.Items()))
	return nil
}
