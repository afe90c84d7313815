/*
Package cli provides command-line interface utilities for odrlcheck.

The cli package includes output formatters, a progress reporter, exit-code
mapping and signal handling used by the odrlcheck command.

Output Formatting:

Results implement Texter, Markdowner or Tabular to support the text,
markdown and csv formats; every result can be written as JSON:

	format, err := cli.ParseFormat(flag, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Commands return cli.ErrInvalidPolicy (possibly wrapped) when validation found
issues; cli.ExitCode turns any command error into 0, 1 or 2.

Signal Handling:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
