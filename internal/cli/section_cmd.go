package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section",
		Short: "Show or replace the data of one section",
	}
	cmd.AddCommand(newSectionShowCmd(app), newSectionSetCmd(app))
	return cmd
}

func newSectionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [SECTION]",
		Short: "Print a section as YAML (defaults to the current one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.resumeDraft(context.Background(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			id := s.Current()
			if len(args) == 1 {
				if id, err = parseSection(args[0]); err != nil {
					return err
				}
			}
			payload, err := s.Sections().Payload(id)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(payload)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", id.Key(), err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %d. %s\n", int(id)+1, id.Name())
			fmt.Fprint(out, string(data))
			if problems := s.Problems(id); len(problems) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.FormatSectionProblems(id, problems))
			}
			return nil
		},
	}
}

func newSectionSetCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set SECTION",
		Short: "Merge a YAML file into a section and save it",
		Long: `Merge a YAML file into a section and save it.

Keys missing from the file keep their current values. Lists are replaced
as a whole; keep the id of existing rows so they are updated rather than
added again. Relative attachment paths resolve against the file's
directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSection(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}

			ctx := context.Background()
			s, err := app.resumeDraft(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := s.GoTo(id); err != nil {
				return err
			}

			var decodeErr error
			err = s.Edit(id, func(sections *domain.Sections) {
				payload, err := sections.Payload(id)
				if err != nil {
					decodeErr = err
					return
				}
				if err := yaml.Unmarshal(data, payload); err != nil {
					decodeErr = fmt.Errorf("parsing %s: %w", file, err)
					return
				}
				resolveAttachments(payload, filepath.Dir(file))
			})
			if decodeErr != nil {
				return decodeErr
			}
			if err != nil {
				return err
			}

			if err := settle(cmd, s.Save(ctx)); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Saved %s\n", formatter.StyleGreen.Render("✔"), id.Name())
			fmt.Fprintln(out, formatter.FormatSectionProblems(id, s.Problems(id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the section fields")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
