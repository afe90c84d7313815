package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/history"
	"mercator-hq/odrlcheck/pkg/history/export"
	"mercator-hq/odrlcheck/pkg/history/storage"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
)

var historyFlags struct {
	backend string

	// list
	limit  int
	source string
	valid  string
	since  string
	until  string
	format string

	// show
	showFormat string

	// prune
	days       int
	maxRecords int64
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the validation history",
	Long: `Query and maintain the validation history recorded by serve, watch and
validate --record.

The backend and its location come from the history section of the config.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded validations",
	Long: `List recorded validations, newest first.

Examples:
  # Latest 20 records
  odrlcheck history list --limit 20

  # Invalid policies of the last day as CSV
  odrlcheck history list --valid=false --since 2026-01-01T00:00:00Z --format csv

  # Everything recorded by the API
  odrlcheck history list --source api --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistory(cmd.Context(), cmd.OutOrStdout())
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded validation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showHistory(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy now",
	Long: `Delete records older than the retention period and the oldest records
beyond the record limit. Flags override history.retention.

Examples:
  odrlcheck history prune
  odrlcheck history prune --days 7 --max-records 1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pruneHistory(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)

	historyCmd.PersistentFlags().StringVar(&historyFlags.backend, "backend", "", "backend: sqlite, memory (uses config if not specified)")

	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", history.DefaultLimit, "maximum number of records")
	historyListCmd.Flags().StringVar(&historyFlags.source, "source", "", "only records from this source (api, cli:<path>, watch:<path>)")
	historyListCmd.Flags().StringVar(&historyFlags.valid, "valid", "", "only valid (true) or invalid (false) results")
	historyListCmd.Flags().StringVar(&historyFlags.since, "since", "", "only records created at or after this RFC 3339 time")
	historyListCmd.Flags().StringVar(&historyFlags.until, "until", "", "only records created before this RFC 3339 time")
	historyListCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")

	historyShowCmd.Flags().StringVar(&historyFlags.showFormat, "format", "json", "output format: json, markdown")

	historyPruneCmd.Flags().IntVar(&historyFlags.days, "days", -1, "retention in days (0 keeps everything)")
	historyPruneCmd.Flags().Int64Var(&historyFlags.maxRecords, "max-records", -1, "maximum records to keep (0 is unlimited)")
}

func openHistoryStorage() (history.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	hc := cfg.History
	if historyFlags.backend != "" {
		hc.Backend = historyFlags.backend
	}
	store, err := storage.Open(&hc)
	if err != nil {
		return nil, cli.NewCommandError("history", err)
	}
	return store, nil
}

func buildHistoryQuery() (*history.Query, error) {
	q := &history.Query{
		Limit:  historyFlags.limit,
		Source: historyFlags.source,
	}
	if historyFlags.valid != "" {
		switch historyFlags.valid {
		case "true":
			v := true
			q.Valid = &v
		case "false":
			v := false
			q.Valid = &v
		default:
			return nil, fmt.Errorf("--valid must be true or false")
		}
	}
	for _, p := range []struct {
		flag  string
		value string
		dst   **time.Time
	}{{"since", historyFlags.since, &q.Since}, {"until", historyFlags.until, &q.Until}} {
		if p.value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, p.value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", p.flag, err)
		}
		*p.dst = &t
	}
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func listHistory(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := cli.ParseFormat(historyFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatCSV)
	if err != nil {
		return err
	}
	q, err := buildHistoryQuery()
	if err != nil {
		return err
	}

	store, err := openHistoryStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx, q)
	if err != nil {
		return cli.NewCommandError("history list", err)
	}

	switch format {
	case cli.FormatJSON:
		return export.NewJSONExporter(true).Export(ctx, records, out)
	case cli.FormatCSV:
		return export.NewCSVExporter(true).Export(ctx, records, out)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tVALID\tVIOLATIONS\tWARNINGS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source, r.Valid, r.ViolationCount, r.WarningCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d record(s)\n", len(records))
	return nil
}

func showHistory(ctx context.Context, out io.Writer, id string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := cli.ParseFormat(historyFlags.showFormat, cli.FormatJSON, cli.FormatMarkdown)
	if err != nil {
		return err
	}

	store, err := openHistoryStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.Get(ctx, id)
	if err != nil {
		return cli.NewCommandError("history show", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(out, record)
	}

	var report validator.ValidationReport
	if err := json.Unmarshal(record.Report, &report); err != nil {
		return cli.NewCommandError("history show", fmt.Errorf("stored report is unreadable: %w", err))
	}
	_, err = io.WriteString(out, report.Render())
	return err
}

func pruneHistory(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openHistoryStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	pcfg := *cfg
	if historyFlags.days >= 0 {
		pcfg.History.Retention.Days = historyFlags.days
	}
	if historyFlags.maxRecords >= 0 {
		pcfg.History.Retention.MaxRecords = historyFlags.maxRecords
	}

	deleted, err := newPruner(&pcfg, store).Prune(ctx)
	if err != nil {
		return cli.NewCommandError("history prune", err)
	}
	fmt.Fprintf(out, "Deleted %d record(s)\n", deleted)
	return nil
}
