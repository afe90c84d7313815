package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/history/recorder"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/watch"
)

var watchFlags struct {
	dir   string
	input string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-validate policy files when they change",
	Long: `Watch a directory (or a single file) and re-validate every policy file
that is created or modified. All matching files are validated once at start.

Results are recorded in the validation history when history.enabled is set.

Examples:
  odrlcheck watch --dir policies/
  odrlcheck watch --dir policy.ttl --input "Allow reading until 2026"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := cli.SignalContext(cmd.Context())
		defer stop()
		return watchPolicies(ctx, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.dir, "dir", "d", "", "directory or file to watch")
	watchCmd.Flags().StringVar(&watchFlags.input, "input", "", "natural-language request the policies were generated from")
	_ = watchCmd.MarkFlagRequired("dir")
}

// policyChecker validates files and prints one summary per file.
type policyChecker struct {
	validator *validator.Validator
	userText  string
	out       io.Writer
	sink      *historySink
	logger    *slog.Logger
}

func (c *policyChecker) check(ctx context.Context, path string) {
	graph, err := readFile(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(c.out, "- %s: removed\n", path)
		return
	}
	if err != nil {
		fmt.Fprintf(c.out, "! %s: %v\n", path, err)
		return
	}

	start := time.Now()
	report := c.validator.Validate(ctx, c.userText, graph)
	result := FileResult{File: path, Report: report}

	fmt.Fprint(c.out, fileSummary(result))
	for _, issue := range report.Issues {
		fmt.Fprintln(c.out, "    "+issue.String())
	}

	if c.sink != nil {
		_, err := c.sink.recorder.Record(ctx, report, recorder.Meta{
			Source:   "watch:" + path,
			Duration: time.Since(start),
		})
		if err != nil {
			c.logger.Warn("failed to record validation", "file", path, "error", err)
		}
	}
}

func watchPolicies(ctx context.Context, out io.Writer) error {
	if watchFlags.dir == "" {
		return fmt.Errorf("--dir must be specified")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	v, err := newValidator(cfg, logger.Slog())
	if err != nil {
		return err
	}

	checker := &policyChecker{
		validator: v,
		userText:  watchFlags.input,
		out:       out,
		logger:    logger.Slog(),
	}
	if cfg.History.Enabled {
		if checker.sink, err = openHistory(cfg); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer func() {
			if err := checker.sink.Close(); err != nil {
				logger.Error("failed to close history", "error", err)
			}
		}()
	}

	info, err := os.Stat(watchFlags.dir)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	var initial []string
	if info.IsDir() {
		initial, err = collectPolicyFiles("", watchFlags.dir, cfg.Watch.Extensions)
	} else {
		initial, err = collectPolicyFiles(watchFlags.dir, "", nil)
	}
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	for _, path := range initial {
		checker.check(ctx, path)
	}

	w, err := watch.New(&watch.Config{
		Path:             watchFlags.dir,
		DebounceInterval: cfg.Watch.Debounce,
		Extensions:       cfg.Watch.Extensions,
		SkipHidden:       true,
	}, logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", watchFlags.dir)
	return w.Watch(ctx, func(paths []string) {
		for _, path := range paths {
			checker.check(ctx, path)
		}
	})
}
