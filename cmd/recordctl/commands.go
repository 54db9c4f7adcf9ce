package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"FashionScoring_EvaluationProject/internal/app"
	"FashionScoring_EvaluationProject/internal/config"
	"FashionScoring_EvaluationProject/internal/logging"
	"FashionScoring_EvaluationProject/internal/models"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	uploadDir string
	dbPath    string
	logLevel  string
	asJSON    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "recordctl",
		Short:         "Inspect and maintain fashion evaluation records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.uploadDir, "upload-dir", "", "upload directory (default: UPLOAD_DIR)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "pending evaluation database (default: DB_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newListCmd(opts),
		newSummaryCmd(opts),
		newDeleteCmd(opts),
		newSweepCmd(opts),
	)
	return root
}

// openApp loads the environment config and applies flag overrides.
func openApp(opts *rootOptions) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.uploadDir != "" {
		cfg.UploadDir = opts.uploadDir
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	logger, err := logging.New(opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return app.New(cfg, logger, nil)
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.History.List()
			out := cmd.OutOrStdout()
			if opts.asJSON {
				views := make([]models.RecordView, 0, len(records))
				for _, r := range records {
					views = append(views, r.View())
				}
				return writeJSON(out, map[string]any{"history": views})
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tBUYER\tDIFF\tPASSED\tFILE")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%t\t%s\n", r.ID, r.Score, r.BuyerScore, r.ScoreDifference, r.Passed, r.Filename)
			}
			return tw.Flush()
		},
	}
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.History.Summary()
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, s)
			}
			fmt.Fprintf(out, "records:            %d\n", s.Count)
			fmt.Fprintf(out, "avg machine score:  %s\n", formatAvg(s.AvgMachineScore))
			fmt.Fprintf(out, "avg buyer score:    %s\n", formatAvg(s.AvgBuyerScore))
			fmt.Fprintf(out, "avg difference:     %s\n", formatAvg(s.AvgScoreDifference))
			fmt.Fprintf(out, "pass rate:          %s\n", formatRate(s.PassRate))
			fmt.Fprintf(out, "evaluation minutes: %.2f\n", s.TotalEvaluationMinutes)
			return nil
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID [ID...]",
		Short: "Delete records and their media",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var failed []string
			for _, id := range args {
				if err := a.Records.Delete(id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
					failed = append(failed, id)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			}
			if len(failed) > 0 {
				return fmt.Errorf("failed to delete: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var grace time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove orphan metadata, stray media and expired pending uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("grace") {
				report, err := a.Records.SweepOrphans(grace)
				if err != nil {
					return err
				}
				return printSweep(cmd.OutOrStdout(), opts.asJSON, report.OrphanMetadata, report.StrayMedia, report.TempFiles, 0)
			}
			result, err := a.Sweeper.RunOnce(context.Background())
			if err != nil {
				return err
			}
			f := result.Files
			return printSweep(cmd.OutOrStdout(), opts.asJSON, f.OrphanMetadata, f.StrayMedia, f.TempFiles, result.ExpiredPending)
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 0, "only sweep record files older than this (skips pending expiry)")
	return cmd
}

func printSweep(out io.Writer, asJSON bool, orphan, stray, temp, pending int) error {
	if asJSON {
		return writeJSON(out, map[string]int{
			"orphan_metadata": orphan,
			"stray_media":     stray,
			"temp_files":      temp,
			"expired_pending": pending,
		})
	}
	fmt.Fprintf(out, "orphan metadata removed: %d\n", orphan)
	fmt.Fprintf(out, "stray media removed:     %d\n", stray)
	fmt.Fprintf(out, "temp files removed:      %d\n", temp)
	fmt.Fprintf(out, "pending expired:         %d\n", pending)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAvg(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}
