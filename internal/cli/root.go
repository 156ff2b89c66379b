package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the grantdesk command tree against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "grantdesk",
		Short:         "Prepare and submit grant applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runEditor(cmd, app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newNewCmd(app),
		newOpenCmd(app),
		newStatusCmd(app),
		newEditCmd(app),
		newSectionCmd(app),
		newNextCmd(app),
		newPrevCmd(app),
		newGotoCmd(app),
		newCompleteCmd(app),
		newSaveCmd(app),
		newSubmitCmd(app),
		newDashboardCmd(app),
		newStatsCmd(app),
		newProposalCmd(app),
		newCallsCmd(app),
		newDraftsCmd(app),
		newActivityCmd(app),
		newNotificationsCmd(app),
		newSessionCmd(app),
		newConfigCmd(app),
	)

	return root
}
