package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/query"
)

type inspectReport struct {
	Board     query.Board         `json:"board"`
	Assignees []query.AssigneeRow `json:"assignees"`
	Dashboard query.Dashboard     `json:"dashboard"`
}

func newInspectCommand() *cobra.Command {
	var opts struct {
		Seed string
		JSON bool
		Now  string
	}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the board and dashboard a seed produces",
		Long: `Load a seed exactly as the server would and print the resulting board
columns, assignee rows and dashboard, without starting a server.

Examples:
  # Inspect the demo board
  taskboard inspect

  # Check a seed file, pinning the reference time for day offsets
  taskboard inspect --seed ./board.yaml --now 2026-01-01T00:00:00Z --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			if opts.Now != "" {
				now, err = time.Parse(time.RFC3339, opts.Now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
			}

			ctx := cmd.Context()
			st, err := newSeededStore(ctx, cfg.Seed, opts.Seed, now)
			if err != nil {
				return err
			}

			svc := board.NewService(st, nil, "",
				board.WithClock(func() time.Time { return now }),
				board.WithUpcomingLimit(cfg.Board.UpcomingLimit),
			)
			report := inspectReport{
				Board:     svc.Board(ctx),
				Assignees: svc.Assignees(ctx),
				Dashboard: svc.Dashboard(ctx),
			}

			out := cmd.OutOrStdout()
			if opts.JSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(out, report)
		},
	}

	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed file (overrides TASKBOARD_SEED_FILE)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print JSON instead of text")
	cmd.Flags().StringVar(&opts.Now, "now", "", "reference time for day offsets and deadlines (RFC3339)")

	return cmd
}

func printReport(out io.Writer, r inspectReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, col := range r.Board.Columns {
		fmt.Fprintf(w, "%s (%d)\n", col.Status, len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintf(w, "  %s\t%d%%\t%s\n", t.Title, t.Progress, strings.Join(t.Assignees, ", "))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "ASSIGNEE\tTASKS")
	for _, row := range r.Assignees {
		fmt.Fprintf(w, "%s\t%d\n", row.Assignee, len(row.Tasks))
	}

	st := r.Dashboard.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "total\t%d\n", st.Total)
	fmt.Fprintf(w, "average progress\t%d%%\n", st.AverageProgress)
	fmt.Fprintln(w, "upcoming deadlines:")
	for _, t := range r.Dashboard.Upcoming {
		fmt.Fprintf(w, "  %s\t%s\n", t.Title, t.EndDate.Format(time.DateOnly))
	}

	return w.Flush()
}
