package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecofocus/internal/calculator"
	"github.com/rshade/ecofocus/internal/engine"
	"github.com/rshade/ecofocus/internal/history"
	"github.com/rshade/ecofocus/internal/recommend"
)

// goalAliases are short names accepted for the predefined goal types.
//
//nolint:gochecknoglobals // Static lookup table.
var goalAliases = map[string]string{
	"daily":    recommend.GoalDailyReduction,
	"weekly":   recommend.GoalWeeklyTarget,
	"monthly":  recommend.GoalMonthlyLimit,
	"annual":   recommend.GoalAnnualFootprint,
	"category": recommend.GoalCategoryReduction,
}

// parseGoalType accepts an alias or a predefined goal type name.
func parseGoalType(s string) (string, error) {
	if t, ok := goalAliases[strings.ToLower(s)]; ok {
		return t, nil
	}
	for _, t := range recommend.GoalTypes {
		if strings.EqualFold(t, s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown goal type %q (want daily, weekly, monthly, annual or category)", s)
}

func newGoalsAddCmd() *cobra.Command {
	var (
		goalType string
		target   float64
		by       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Set a new goal",
		Long: `Sets a goal in kg CO2. Daily, weekly and monthly goals are limits on the
7-day average, the 7-day sum and the recent total; annual goals compare the
annualized average.`,
		Example: `  ecofocus goals add --type daily --target 12
  ecofocus goals add --type monthly --target 400 --by 2025-06-30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseGoalType(goalType)
			if err != nil {
				return err
			}
			if target <= 0 {
				return errors.New("--target must be positive")
			}
			var targetDate time.Time
			if by != "" {
				if targetDate, err = parseDay(by, time.Now()); err != nil {
					return err
				}
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err = s.requireUser(cmd.Context()); err != nil {
				return err
			}

			id, err := s.store.CreateGoal(cmd.Context(), history.Goal{
				UserID:      s.userID,
				GoalType:    t,
				TargetValue: target,
				TargetDate:  targetDate,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Created goal %d: %s, target %.1f kg CO₂\n", id, t, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&goalType, "type", "daily", "goal type: daily, weekly, monthly, annual, category")
	cmd.Flags().Float64Var(&target, "target", 0, "target value in kg CO2 (required)")
	cmd.Flags().StringVar(&by, "by", "", "target date YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

// goalStatuses evaluates the user's active goals against recent history.
func goalStatuses(ctx context.Context, s *session) ([]engine.GoalStatus, error) {
	goals, err := s.store.GetGoals(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.GetHistory(ctx, s.userID, s.engine.Config().HistoryDays)
	if err != nil {
		return nil, err
	}
	totals := calculator.Totals(records)
	now := time.Now()
	out := make([]engine.GoalStatus, 0, len(goals))
	for _, g := range goals {
		current := recommend.GoalMeasure(g.GoalType, totals)
		out = append(out, engine.GoalStatus{
			Goal:     g,
			Progress: recommend.EvaluateGoal(g.GoalType, g.TargetValue, current, g.TargetDate, now),
		})
	}
	return out, nil
}

func newGoalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show active goals and their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			statuses, err := goalStatuses(cmd.Context(), s)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if handled, err := renderStructured(w, format, statuses, statuses); handled {
				return err
			}
			if len(statuses) == 0 {
				fmt.Fprintln(w, "No active goals. Add one with 'ecofocus goals add'.")
				return nil
			}
			return renderGoalStatuses(w, statuses)
		},
	}
}

func renderGoalStatuses(w io.Writer, statuses []engine.GoalStatus) error {
	writeSection(w, "GOALS")
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tGOAL\tTARGET\tCURRENT\tPROGRESS\tSTATUS\tDAYS LEFT")
	fmt.Fprintln(tw, "--\t----\t------\t-------\t--------\t------\t---------")
	for _, st := range statuses {
		daysLeft := "-"
		if !st.Goal.TargetDate.IsZero() {
			daysLeft = strconv.Itoa(st.Progress.DaysLeft)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.0f%%\t%s\t%s\n",
			st.Goal.ID, st.Goal.GoalType, st.Progress.Target, st.Progress.Current,
			st.Progress.Percent, st.Progress.Status, daysLeft)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func newGoalsUpdateCmd() *cobra.Command {
	var (
		current float64
		status  string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Record progress or change the status of a goal",
		Long: `Without flags the goal's current value is recomputed from recent history.
--current stores an explicit value; --status completes or abandons the goal.`,
		Example: `  ecofocus goals update 3
  ecofocus goals update 3 --current 10.5
  ecofocus goals update 3 --status completed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid goal ID %q", args[0])
			}
			if status != "" {
				switch status {
				case history.GoalActive, history.GoalCompleted, history.GoalAbandoned:
				default:
					return fmt.Errorf("invalid status %q (want %s, %s or %s)",
						status, history.GoalActive, history.GoalCompleted, history.GoalAbandoned)
				}
			}

			s, err := openSession(cmd, 0)
			if err != nil {
				return err
			}
			defer s.Close()

			switch {
			case status != "":
				if err = s.store.SetGoalStatus(ctx, id, status); err != nil {
					return err
				}
				cmd.Printf("Goal %d is now %s\n", id, status)
				return nil
			case cmd.Flags().Changed("current"):
				if err = s.store.UpdateGoalProgress(ctx, id, current); err != nil {
					return err
				}
				cmd.Printf("Goal %d progress set to %.1f\n", id, current)
				return nil
			}

			statuses, err := goalStatuses(ctx, s)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				if st.Goal.ID != id {
					continue
				}
				if err = s.store.UpdateGoalProgress(ctx, id, st.Progress.Current); err != nil {
					return err
				}
				cmd.Printf("Goal %d: %.1f of %.1f (%.0f%%, %s)\n",
					id, st.Progress.Current, st.Progress.Target, st.Progress.Percent, st.Progress.Status)
				return nil
			}
			return fmt.Errorf("active goal %d for user %d: %w", id, s.userID, history.ErrNotFound)
		},
	}

	cmd.Flags().Float64Var(&current, "current", 0, "current value in kg CO2")
	cmd.Flags().StringVar(&status, "status", "", "new status: active, completed, abandoned")
	return cmd
}
