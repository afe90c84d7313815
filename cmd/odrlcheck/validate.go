package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/history/recorder"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/watch"
)

var validateFlags struct {
	file      string
	dir       string
	input     string
	inputFile string
	format    string
	strict    bool
	record    bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate ODRL policy files",
	Long: `Validate ODRL policies written in Turtle.

Every file is checked against four rule modules:
  - Policy structure (uid, at least one rule)
  - Constraint structure (left operand, operator, right operand)
  - Operator compatibility with the left operand
  - Logical constraints (and, or, xone, andSequence)

Any issue, warnings included, makes a policy invalid. --strict is accepted
for compatibility and changes nothing.

Examples:
  # Validate a single file
  odrlcheck validate --file policy.ttl

  # Validate a directory (recursively, by configured extension)
  odrlcheck validate --dir policies/

  # Include the natural-language request and print feedback
  odrlcheck validate --file policy.ttl --input "Allow reading until 2026" --format markdown

  # JSON output for pipelines
  odrlcheck validate --file policy.ttl --format json

  # Record the results in the validation history
  odrlcheck validate --dir policies/ --record`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validatePolicies(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.file, "file", "f", "", "policy file to validate")
	validateCmd.Flags().StringVarP(&validateFlags.dir, "dir", "d", "", "directory of policy files")
	validateCmd.Flags().StringVar(&validateFlags.input, "input", "", "natural-language request the policies were generated from")
	validateCmd.Flags().StringVar(&validateFlags.inputFile, "input-file", "", "file holding the natural-language request")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, markdown")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat warnings as errors (always the case)")
	validateCmd.Flags().BoolVar(&validateFlags.record, "record", false, "record results in the validation history")
	validateCmd.MarkFlagsMutuallyExclusive("input", "input-file")
}

// FileResult is the validation outcome of one file.
type FileResult struct {
	File   string                      `json:"file"`
	Report *validator.ValidationReport `json:"report"`
}

// ValidateResult holds the outcome of one validate run.
type ValidateResult struct {
	Files []FileResult
}

// Invalid returns the number of files with issues.
func (r ValidateResult) Invalid() int {
	n := 0
	for _, f := range r.Files {
		if !f.Report.IsValid {
			n++
		}
	}
	return n
}

// MarshalJSON writes the results as an array.
func (r ValidateResult) MarshalJSON() ([]byte, error) {
	files := r.Files
	if files == nil {
		files = []FileResult{}
	}
	return json.Marshal(files)
}

// Text lists every file with its issues followed by a summary line.
func (r ValidateResult) Text() string {
	var sb strings.Builder
	for _, f := range r.Files {
		sb.WriteString(fileSummary(f))
		for _, issue := range f.Report.Issues {
			sb.WriteString("    " + issue.String() + "\n")
		}
	}
	fmt.Fprintf(&sb, "\n%d file(s) checked, %d valid, %d invalid\n",
		len(r.Files), len(r.Files)-r.Invalid(), r.Invalid())
	return sb.String()
}

// Markdown returns the feedback document of every file.
func (r ValidateResult) Markdown() string {
	docs := make([]string, len(r.Files))
	for i, f := range r.Files {
		docs[i] = f.Report.Render()
		if len(r.Files) > 1 {
			docs[i] = fmt.Sprintf("<!-- %s -->\n%s", f.File, docs[i])
		}
	}
	return strings.Join(docs, "\n---\n\n")
}

func fileSummary(f FileResult) string {
	if f.Report.IsValid {
		return fmt.Sprintf("✓ %s: valid (%d policies)\n", f.File, f.Report.PolicyCount)
	}
	return fmt.Sprintf("✗ %s: %d violation(s), %d warning(s)\n",
		f.File, f.Report.ViolationCount, f.Report.WarningCount)
}

func validatePolicies(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if validateFlags.file == "" && validateFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}
	format, err := cli.ParseFormat(validateFlags.format, cli.FormatText, cli.FormatJSON, cli.FormatMarkdown)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	userText := validateFlags.input
	if validateFlags.inputFile != "" {
		if userText, err = readFile(validateFlags.inputFile); err != nil {
			return cli.NewCommandError("validate", fmt.Errorf("failed to read input file: %w", err))
		}
	}

	files, err := collectPolicyFiles(validateFlags.file, validateFlags.dir, cfg.Watch.Extensions)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	if len(files) == 0 {
		return cli.NewCommandError("validate", fmt.Errorf("no policy files found"))
	}

	v, err := newValidator(cfg, logger.Slog())
	if err != nil {
		return err
	}

	var sink *historySink
	if validateFlags.record {
		if sink, err = openHistory(cfg); err != nil {
			return cli.NewCommandError("validate", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Error("failed to close history", "error", err)
			}
		}()
	}

	var progress cli.ProgressReporter
	if verbose && len(files) > 1 {
		progress = cli.NewProgressReporter(os.Stderr, "Validating")
		progress.Start(int64(len(files)))
	}

	result := ValidateResult{Files: make([]FileResult, 0, len(files))}
	for _, file := range files {
		graph, err := readFile(file)
		if err != nil {
			if progress != nil {
				progress.Error(err)
			}
			return cli.NewCommandError("validate", fmt.Errorf("failed to read %s: %w", file, err))
		}

		start := time.Now()
		report := v.Validate(ctx, userText, graph)
		result.Files = append(result.Files, FileResult{File: file, Report: report})

		if sink != nil {
			_, err := sink.recorder.Record(ctx, report, recorder.Meta{
				Source:   "cli:" + file,
				Duration: time.Since(start),
			})
			if err != nil {
				logger.Warn("failed to record validation", "file", file, "error", err)
			}
		}
		if progress != nil {
			progress.Increment()
		}
	}
	if progress != nil {
		progress.Finish()
	}

	if err := cli.NewFormatter(format).FormatTo(out, result); err != nil {
		return cli.NewCommandError("validate", fmt.Errorf("failed to write output: %w", err))
	}

	if n := result.Invalid(); n > 0 {
		return fmt.Errorf("%d of %d file(s): %w", n, len(result.Files), cli.ErrInvalidPolicy)
	}
	return nil
}

// collectPolicyFiles returns file (if set) followed by every file under dir
// with one of the extensions, in lexical order.
func collectPolicyFiles(file, dir string, extensions []string) ([]string, error) {
	var files []string
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if dir == "" {
		return files, nil
	}

	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if watch.HasExtension(path, extensions) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list policy files: %w", err)
	}
	sort.Strings(found)
	return append(files, found...), nil
}
