package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecofocus/internal/config"
	"github.com/rshade/ecofocus/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// defaultUserID is the user the CLI acts for when --user is not given. A
// fresh database assigns it to the first user created.
const defaultUserID = 1

// NewRootCmd creates the root Cobra command for the ecofocus CLI.
// It resolves configuration, wires up logging and tracing, and registers
// every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "ecofocus",
		Short:         "Personal carbon footprint tracker and advisor",
		Long:          "ecofocus: calculate, predict, forecast and reduce your carbon footprint",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default $ECOFOCUS_HOME/config.yaml or ~/.ecofocus/config.yaml)")
	cmd.PersistentFlags().String("db", "", "history database path (overrides config and ECOFOCUS_DB)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding a .ecofocus overlay")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().Int64("user", defaultUserID, "user ID to act for")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, ndjson (default from config)")

	cmd.AddCommand(
		newCalcCmd(),
		newModelCmd(),
		newForecastCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
		newRecommendCmd(),
		newBenchmarkCmd(),
		newTipsCmd(),
		newChallengesCmd(),
		newHistoryCmd(),
		newUserCmd(),
		newGoalsCmd(),
		newExportCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig resolves the project overlay and installs the effective
// configuration as the global one. --config bypasses the overlay; --db wins
// over everything.
func loadConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	projectDir := config.ResolveProjectDir(ctx, projectFlag, wd)
	config.SetResolvedProjectDir(projectDir)

	var cfg *config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		cfg.ApplyEnv()
	} else {
		cfg = config.NewWithProjectDir(ctx, projectDir)
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.Storage.Database = db
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Calculate today's footprint from activities
  ecofocus calc --activity transportation.car_gasoline=25 --activity energy.electricity=12

  # Create a demo user with 60 days of history
  ecofocus history seed-demo

  # Show personalized recommendations with an action plan
  ecofocus recommend --plan

  # Browse recommendations interactively
  ecofocus recommend --tui

  # Forecast the next two weeks and save a chart
  ecofocus forecast --days 14 --chart forecast.png

  # Predict an annual footprint from a household profile
  ecofocus model predict --file profile.yaml

  # Export everything to a workbook
  ecofocus export --format xlsx

  # Initialize configuration
  ecofocus config init`

// newModelCmd creates the model command group.
func newModelCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "model", Short: "Footprint prediction models"}
	cmd.AddCommand(newModelTrainCmd(), newModelReportCmd(), newModelPredictCmd(), newModelImportanceCmd())
	return cmd
}

// newHistoryCmd creates the history command group.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "history", Short: "Stored daily footprints"}
	cmd.AddCommand(
		newHistoryListCmd(), newHistoryImportCmd(), newHistorySeedDemoCmd(),
		newHistorySummaryCmd(), newHistoryActivitiesCmd(),
	)
	return cmd
}

// newGoalsCmd creates the goals command group.
func newGoalsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "goals", Short: "Emission reduction goals"}
	cmd.AddCommand(newGoalsAddCmd(), newGoalsListCmd(), newGoalsUpdateCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
