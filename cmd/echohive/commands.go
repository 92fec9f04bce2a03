package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dastanaron/echohive/internal/commands"
	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/service"

	"github.com/spf13/cobra"
)

func newImportCommand(deps *runtimeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import items from an html, json or yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := commands.NewImportCommand(deps.svc, cmd.OutOrStdout()).Execute(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			return nil
		},
	}
}

func newExportCommand(deps *runtimeDeps) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collection to an html, json or yaml file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := commands.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = "echohive." + string(f)
			}
			if err := commands.NewExportCommand(deps.svc, cmd.OutOrStdout()).Execute(out, f); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(commands.FormatHTML), "output format: html, json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default echohive.<format>)")
	return cmd
}

func newClearDoublesCommand(deps *runtimeDeps) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "clear-doubles",
		Short: "Remove items whose title repeats, keeping the first",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())
			if assumeYes {
				confirm = func(models.ContentItem) bool { return true }
			}
			if err := commands.NewClearDoublesCommand(deps.svc, cmd.OutOrStdout()).Execute(cmd.Context(), confirm); err != nil {
				return fmt.Errorf("clear doubles failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "delete without asking")
	return cmd
}

func newResetCommand(deps *runtimeDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop the stored collection and restore the built-in items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.NewResetCommand(deps.svc, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}
}

// promptConfirm asks on out and reads y/yes from in
func promptConfirm(in io.Reader, out io.Writer) service.Confirm {
	reader := bufio.NewReader(in)
	return func(item models.ContentItem) bool {
		fmt.Fprintf(out, "Delete '%s' (ID: %d)? [y/N] ", item.Title, item.ID)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
