package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/ecofocus/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after the project overlay and env overrides.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  ecofocus config show
  ecofocus config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			format, _ := cmd.Flags().GetString("output")

			w := cmd.OutOrStdout()
			if format == outputJSON || format == outputNDJSON {
				return renderJSON(w, cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			fmt.Fprintf(w, "# %s\n", cfg.Path())
			if dir := config.GetResolvedProjectDir(); dir != "" {
				fmt.Fprintf(w, "# project: %s\n", dir)
			}
			_, err = w.Write(data)
			return err
		},
	}
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates output, logging, model, forecast and analysis settings of the
effective configuration (global file, project overlay and environment).`,
		Example: `  ecofocus config validate
  ecofocus config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Println("Configuration is valid")
			if verbose {
				cmd.Printf("  file:      %s\n", cfg.Path())
				cmd.Printf("  database:  %s\n", cfg.Storage.Database)
				cmd.Printf("  cache:     %s (report ttl %s)\n", cfg.Storage.CacheDir, cfg.ReportTTL())
				cmd.Printf("  model:     %s, %d estimators, %d rows\n",
					cfg.Model.Variant, cfg.Model.Estimators, cfg.Model.TrainingRows)
				cmd.Printf("  forecast:  %d days\n", cfg.Forecast.Days)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")
	return cmd
}
