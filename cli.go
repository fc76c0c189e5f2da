package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/drsaho/weekly-tracker/internal/plan"
)

// newRootCmd wires every command to a. Running without a subcommand serves
// the JSON API.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "weekly-tracker",
		Short: "12-week weight-loss plan tracker",
		Long: `weekly-tracker keeps a 12-week weight-loss plan, weekly measurements and a
TDEE-based calorie target in a local store.

Run without arguments to serve the JSON API for the browser front-end.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the JSON API (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the plan, stats and calorie target",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				renderPlan(cmd.OutOrStdout(), a.tracker.Snapshot())
				return nil
			},
		},
		newGenerateCmd(a),
		newClearCmd(a),
		newSetCmd(a),
		newUnitsCmd(a),
		newSeriesCmd(a),
		newTDEECmd(a),
	)
	return root
}

func newGenerateCmd(a *app) *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the 12 weekly goals (2 lb/week)",
		Long: `Generates goal = start - 2*week for weeks 1-12.

Without --start the starting weight comes from week 1's current weight, then
the TDEE weight in pounds, then the TDEE weight in kilograms.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.tracker.GeneratePlan(cmd.Context(), start)
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "starting weight in lb")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the plan and every weekly entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Clear the entire 12-week plan and all entries?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing cleared.")
				return nil
			}
			if _, err := a.tracker.ClearPlan(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Plan cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	names := make([]string, len(plan.Fields))
	for i, f := range plan.Fields {
		names[i] = string(f)
	}
	return &cobra.Command{
		Use:   "set WEEK FIELD VALUE",
		Short: "Store one cell of the weekly table",
		Long:  "Stores VALUE exactly as given. FIELD is one of: " + strings.Join(names, ", ") + ".",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			week, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("week must be a number: %w", err)
			}
			s, err := a.tracker.UpdateCell(cmd.Context(), week, plan.Field(args[1]), args[2])
			if err != nil {
				return err
			}
			renderPlan(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newUnitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "units us|metric",
		Short:     "Choose US or metric TDEE inputs",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(plan.UnitsUS), string(plan.UnitsMetric)},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.tracker.SetUnitMode(cmd.Context(), plan.UnitMode(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Units: %s\n", s.UnitMode)
			return nil
		},
	}
}

func newSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "series KEY on|off",
		Short: "Show or hide one series of the metrics chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var visible bool
			switch args[1] {
			case "on":
				visible = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[1])
			}
			if _, err := a.tracker.SetSeriesVisible(cmd.Context(), plan.SeriesKey(args[0]), visible); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Series %s: %s\n", args[0], args[1])
			return nil
		},
	}
}

func newTDEECmd(a *app) *cobra.Command {
	var in plan.RawTDEEInputs
	cmd := &cobra.Command{
		Use:   "tdee",
		Short: "Calculate BMR, TDEE and the daily calorie target",
		Long: `Calculates with Mifflin-St Jeor. US units need --age, --height-ft and
--weight-lb; metric units need --age, --height-cm and --weight-kg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.tracker.CalculateTDEE(cmd.Context(), in)
			if err != nil {
				return err
			}
			renderTDEE(cmd.OutOrStdout(), s)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Sex, "sex", "male", "male or female")
	f.StringVar(&in.Age, "age", "", "age in years")
	f.StringVar(&in.HeightFt, "height-ft", "", "height, feet")
	f.StringVar(&in.HeightIn, "height-in", "", "height, inches")
	f.StringVar(&in.HeightCm, "height-cm", "", "height in cm")
	f.StringVar(&in.WeightLb, "weight-lb", "", "weight in lb")
	f.StringVar(&in.WeightKg, "weight-kg", "", "weight in kg")
	f.StringVar(&in.Activity, "activity", "", "multiplier or sedentary|light|moderate|active|very_active (default 1.2)")
	f.StringVar(&in.LossRate, "loss-rate", "", "target loss in lb/week (default 2)")
	return cmd
}

/* ─── Rendering ──────────────────────────────────────────────────────── */

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	gainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// confirm asks a y/N question; anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func renderPlan(w io.Writer, s plan.State) {
	if s.StartingWeight != nil {
		fmt.Fprintf(w, "Starting weight: %s lb\n", strconv.FormatFloat(*s.StartingWeight, 'f', -1, 64))
	} else {
		fmt.Fprintln(w, "Starting weight: not set")
	}

	rows := make([][]string, 0, plan.WeekCount)
	for i, r := range s.Rows {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), string(r.Date), string(r.Time), string(r.Goal), string(r.Current),
			string(r.BodyFat), string(r.Muscle), string(r.Water), string(r.BP), string(r.Waist),
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Week", "Date", "Time", "Goal", "Current", "Body fat %", "Muscle", "Water %", "BP", "Waist").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())

	if stats, ok := plan.ComputeStats(s.Rows); ok {
		style := lipgloss.NewStyle()
		switch stats.Trend() {
		case "loss":
			style = lossStyle
		case "gain":
			style = gainStyle
		}
		fmt.Fprintf(w, "Start %.1f  Latest %.1f  Change %s  Avg/week %s\n",
			stats.Start, stats.Latest,
			style.Render(fmt.Sprintf("%+.1f", stats.Total)),
			style.Render(fmt.Sprintf("%+.2f", stats.AvgPerWeek)))
	} else {
		fmt.Fprintln(w, "Start —  Latest —  Change —  Avg/week —")
	}
	renderTDEE(w, s)
}

func renderTDEE(w io.Writer, s plan.State) {
	if s.TDEE == nil || s.TargetCalories == nil {
		fmt.Fprintln(w, "TDEE: not calculated")
		return
	}
	fmt.Fprintf(w, "TDEE: %.0f kcal/day  Target: %d kcal/day (%.1f lb/week)\n",
		*s.TDEE, *s.TargetCalories, s.TDEEInputs.LossRate)
}
