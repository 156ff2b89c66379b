package cli

import (
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or forget the saved wizard position",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the saved application id and step",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.State.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if st == nil {
				fmt.Fprintln(out, formatter.Dim("No session saved."))
				return nil
			}
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold("Application"), formatter.OrDash(st.SubmissionID))
			fmt.Fprintf(out, "%s  %d. %s\n", formatter.Bold("Step"), st.Step+1, domain.SectionID(st.Step).Name())
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold("Template"), formatter.OrDash(st.TemplateID))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the saved position; the draft itself is kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.State.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Session cleared\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	})

	return cmd
}
