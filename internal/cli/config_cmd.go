package cli

import (
	"fmt"

	"github.com/alexanderramin/grantdesk/internal/cli/formatter"
	"github.com/alexanderramin/grantdesk/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or write grantdesk settings",
	}
	cmd.AddCommand(newConfigShowCmd(app), newConfigInitCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if app.Config != nil {
				cp := *app.Config
				cfg = &cp
			}
			if cfg.Token != "" {
				cfg.Token = "********"
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the global config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := config.Default()
			if app.Config != nil {
				cp := *app.Config
				out = &cp
			}
			flags := cmd.Flags()
			set := func(name string, dst *string, val string) {
				if flags.Changed(name) {
					*dst = val
				}
			}
			set("backend", &out.Backend, cfg.Backend)
			set("api-url", &out.APIURL, cfg.APIURL)
			set("media-url", &out.MediaURL, cfg.MediaURL)
			set("token", &out.Token, cfg.Token)
			set("template", &out.TemplateID, cfg.TemplateID)
			set("service", &out.ServiceID, cfg.ServiceID)

			if err := out.Validate(); err != nil {
				return err
			}
			if err := config.WriteGlobal(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", formatter.StyleGreen.Render("✔"), config.GlobalPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Backend, "backend", "", "remote or local")
	cmd.Flags().StringVar(&cfg.APIURL, "api-url", "", "Portal API root")
	cmd.Flags().StringVar(&cfg.MediaURL, "media-url", "", "Base URL for uploaded file previews")
	cmd.Flags().StringVar(&cfg.Token, "token", "", "Access token sent as a bearer credential")
	cmd.Flags().StringVar(&cfg.TemplateID, "template", "", "Default call template id")
	cmd.Flags().StringVar(&cfg.ServiceID, "service", "", "Default service id")

	return cmd
}
