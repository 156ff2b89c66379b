package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/alexanderramin/grantdesk/internal/app"
	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/contract"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultPageSize = 10

// degraded prints a dashboard fallback message on stderr.
func degraded[T any](cmd *cobra.Command, res contract.Result[T]) T {
	if !res.Succeeded() && res.Message != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("! "+res.Message))
	}
	return res.Data
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show stats, drafts, open calls and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Loading dashboard")
			ov := app.Dashboard.Overview(context.Background())
			stop()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(degraded(cmd, ov), app.now()))
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show proposals grouped by evaluation stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if refresh {
				degraded(cmd, app.Dashboard.RefreshStats(ctx))
			}
			stats := degraded(cmd, app.Dashboard.ProposalStats(ctx))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposalStats(stats, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ask the portal to recompute stats first")

	return cmd
}

func newProposalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "proposal ID",
		Short: "Show a submitted proposal and its evaluation workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.Dashboard.ProposalDetail(context.Background(), args[0])
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProposalDetail(degraded(cmd, res)))
			return nil
		},
	}
}

// callFile is the YAML shape accepted by 'calls import'.
type callFile struct {
	Calls []struct {
		ID          string `yaml:"id"`
		TemplateID  string `yaml:"template_id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Status      string `yaml:"status"`
		StartDate   string `yaml:"start_date"`
		EndDate     string `yaml:"end_date"`
	} `yaml:"calls"`
}

func newCallsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List current and previous calls for proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			calls := degraded(cmd, a.Dashboard.Calls(context.Background()))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalls(calls))
			return nil
		},
	}

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Load calls from a YAML file (local backend only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Calls == nil {
				return fmt.Errorf("calls come from the portal with the remote backend; nothing to import")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			var cf callFile
			if err := yaml.Unmarshal(data, &cf); err != nil {
				return fmt.Errorf("parsing %s: %w", file, err)
			}
			calls := make([]app.Call, len(cf.Calls))
			for i, c := range cf.Calls {
				calls[i] = app.Call{
					ID:          c.ID,
					TemplateID:  c.TemplateID,
					Name:        c.Name,
					Description: c.Description,
					Status:      c.Status,
					StartDate:   c.StartDate,
					EndDate:     c.EndDate,
				}
			}
			if err := a.Calls.ImportCalls(context.Background(), calls); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d calls\n", formatter.StyleGreen.Render("✔"), len(calls))
			return nil
		},
	}
	importCmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level 'calls' list")
	_ = importCmd.MarkFlagRequired("file")

	cmd.AddCommand(importCmd)
	return cmd
}

func newDraftsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List applications that are still in progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts := degraded(cmd, app.Dashboard.Drafts(context.Background()))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubmissions(drafts, app.now()))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a draft application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			res := app.Dashboard.DeleteDraft(context.Background(), id)
			if !res.Succeeded() {
				return fmt.Errorf("%s", res.Message)
			}
			st, err := app.State.Load()
			if err == nil && st != nil && st.SubmissionID == id {
				if err := app.State.Clear(); err != nil {
					return fmt.Errorf("clearing session: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted draft %s\n", formatter.StyleGreen.Render("✔"), id)
			return nil
		},
	})

	return cmd
}

func newActivityCmd(app *App) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := degraded(cmd, app.Dashboard.Activities(context.Background(), page, limit))
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatActivities(res.Results, app.now()))
			fmt.Fprintln(out, formatter.FormatPage(page, limit, res.Count))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", defaultPageSize, "Entries per page")

	cmd.AddCommand(&cobra.Command{
		Use:   "read ID",
		Short: "Mark an activity as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid activity id %q", args[0])
			}
			res := app.Dashboard.MarkActivityRead(context.Background(), id)
			if !res.Succeeded() {
				return fmt.Errorf("%s", res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Marked activity %d as read\n", formatter.StyleGreen.Render("✔"), id)
			return nil
		},
	})

	return cmd
}

func newNotificationsCmd(app *App) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := degraded(cmd, app.Dashboard.Notifications(context.Background(), page, limit))
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatNotifications(res.Results, app.now()))
			fmt.Fprintln(out, formatter.FormatPage(page, limit, res.Count))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", defaultPageSize, "Entries per page")

	return cmd
}
