package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/alexanderramin/grantdesk/internal/wizard"
	"github.com/spf13/cobra"
)

// settle prints warnings and swallows err when the operation still took
// effect locally.
func settle(cmd *cobra.Command, err error) error {
	if err == nil || !wizard.IsWarning(err) {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatWarnings(warnings(err)))
	return nil
}

func printStatus(cmd *cobra.Command, s *wizard.Session) {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWizardStatus(wizardStatus(s)))
}

func printPosition(cmd *cobra.Command, s *wizard.Session) {
	id := s.Current()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d. %s\n", formatter.StyleHeader.Render("▸"), int(id)+1, formatter.Bold(id.Name()))
}

func newNewCmd(app *App) *cobra.Command {
	var templateID, serviceID string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new application under a call",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.newSession()
			if templateID != "" {
				s = app.newSession(wizard.WithCall(templateID, serviceID))
			}
			s.Reset()
			if err := s.Start(context.Background()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Started application %s\n",
				formatter.StyleGreen.Render("✔"), s.Draft().RemoteID)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Call template id (defaults to template_id from config)")
	cmd.Flags().StringVar(&serviceID, "service", "", "Service id sent with the template")

	return cmd
}

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open ID",
		Short: "Load a saved application and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.newSession()
			if err := s.Open(context.Background(), args[0]); err != nil {
				return err
			}
			printStatus(cmd, s)
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show section completion for the current application",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.resumeDraft(context.Background(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			printStatus(cmd, s)
			return nil
		},
	}
}

func newNextCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Move to the next section",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.resumeDraft(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := settle(cmd, s.GoNext(ctx)); err != nil {
				return err
			}
			printPosition(cmd, s)
			return nil
		},
	}
}

func newPrevCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Move to the previous section",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.resumeDraft(context.Background(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s.GoPrevious()
			printPosition(cmd, s)
			return nil
		},
	}
}

func newGotoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goto SECTION",
		Short: "Jump to a section by number, name or alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSection(args[0])
			if err != nil {
				return err
			}
			s, err := app.resumeDraft(context.Background(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := s.GoTo(id); err != nil {
				return err
			}
			printPosition(cmd, s)
			return nil
		},
	}
}

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete [SECTION]",
		Short: "Mark an optional section complete (defaults to the current one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.resumeDraft(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			id := s.Current()
			if len(args) == 1 {
				if id, err = parseSection(args[0]); err != nil {
					return err
				}
			}
			if err := settle(cmd, s.MarkOptionalComplete(ctx, id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s marked complete\n", formatter.StyleGreen.Render("✔"), id.Name())
			return nil
		},
	}
}

func newSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current section again",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.resumeDraft(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := settle(cmd, s.Save(ctx)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %s\n", formatter.StyleGreen.Render("✔"), s.Current().Name())
			return nil
		},
	}
}

func newSubmitCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the application (from the last section)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.resumeDraft(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("submitting cannot be undone; pass --yes to confirm")
				}
				if err := confirmForm("Submit this application? It cannot be edited afterwards.", &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}
			res, err := s.SubmitAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StyleGreen.Render("✔"), res.Message)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")

	return cmd
}

// parseSection accepts the 1-based numbers shown by status as well as
// section names and aliases.
func parseSection(s string) (domain.SectionID, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		id := domain.SectionID(n - 1)
		if !id.Valid() {
			return 0, fmt.Errorf("section number %d out of range 1-%d", n, domain.SectionCount)
		}
		return id, nil
	}
	id, err := domain.ParseSectionID(s)
	if err != nil {
		return 0, fmt.Errorf("%w (see 'grantdesk status' for section names)", err)
	}
	return id, nil
}
