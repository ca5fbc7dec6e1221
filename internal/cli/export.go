package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/export"
)

// Export kinds for CSV output.
const (
	exportKindFootprints = "footprints"
	exportKindActivities = "activities"
	exportKindUser       = "user"
)

// exportParams holds the parameters for the export command execution.
type exportParams struct {
	format string
	out    string
	kind   string
	days   int
}

func newExportCmd() *cobra.Command {
	var params exportParams

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the user's data to CSV, JSON or XLSX",
		Long: `Exports stored data for --user.

  csv   footprints (default) or activities, one row per day/activity
  json  user, footprints, activities and goals in one document
  xlsx  a workbook with history and activities, plus recommendations,
        action plan and benchmarks when history exists

Without --out a timestamped file is written to the current directory;
--out - writes to stdout.`,
		Example: `  ecofocus export --format csv
  ecofocus export --format csv --kind activities --out activities.csv
  ecofocus export --format xlsx --out footprint.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeExport(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.format, "format", string(export.FormatCSV), "csv, json or xlsx")
	cmd.Flags().StringVar(&params.out, "out", "", "output file, - for stdout")
	cmd.Flags().StringVar(&params.kind, "kind", exportKindFootprints, "csv content: footprints or activities")
	cmd.Flags().IntVar(&params.days, "days", 365, "days of history to include")
	return cmd
}

func executeExport(cmd *cobra.Command, params exportParams) error {
	ctx := cmd.Context()

	f, err := export.ParseFormat(params.format)
	if err != nil {
		return err
	}
	kind := exportKindUser
	if f == export.FormatCSV {
		switch params.kind {
		case exportKindFootprints, exportKindActivities:
			kind = params.kind
		default:
			return fmt.Errorf("invalid --kind %q (want %s or %s)", params.kind, exportKindFootprints, exportKindActivities)
		}
	}

	s, err := openSession(cmd, 0)
	if err != nil {
		return err
	}
	defer s.Close()

	user, err := s.requireUser(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	data := export.UserData{User: user, ExportedAt: now}
	if data.Footprints, err = s.store.GetHistory(ctx, s.userID, params.days); err != nil {
		return err
	}
	if data.Activities, err = s.store.GetActivities(ctx, s.userID, "", now.AddDate(0, 0, -params.days)); err != nil {
		return err
	}
	if data.Goals, err = s.store.GetGoals(ctx, s.userID); err != nil {
		return err
	}

	path := params.out
	if path == "" {
		path = export.FileName(s.userID, kind, f, now)
	}
	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		file, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", path, createErr)
		}
		defer file.Close()
		w = file
	}

	switch {
	case f == export.FormatJSON:
		err = export.WriteJSON(w, data)
	case f == export.FormatXLSX:
		var rep *engine.UserReport
		r, repErr := s.engine.Report(ctx, s.userID)
		switch {
		case repErr == nil:
			rep = &r
		case !errors.Is(repErr, engine.ErrNoHistory):
			return repErr
		}
		err = export.WriteWorkbook(w, data, rep)
	case kind == exportKindActivities:
		err = export.WriteActivitiesCSV(w, data.Activities)
	default:
		err = export.WriteHistoryCSV(w, data.Footprints)
	}
	if err != nil {
		return err
	}

	logger.Info().Ctx(ctx).
		Str("format", string(f)).
		Str("path", path).
		Int("days", len(data.Footprints)).
		Msg("export written")
	if path != "-" {
		cmd.PrintErrf("Exported %d days to %s\n", len(data.Footprints), path)
	}
	return nil
}
