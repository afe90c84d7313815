package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/odrlcheck/pkg/cli"
	"mercator-hq/odrlcheck/pkg/telemetry/health"
)

// Set with -ldflags "-X main.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionFlags struct {
	format string
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the odrlcheck version, Git commit, build date and Go version.
The JSON form matches the server's /version endpoint.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), versionFlags.format)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringVar(&versionFlags.format, "format", "text", "output format: text, json")
}

func versionInfo() health.VersionInfo {
	return health.NewVersionInfo(Version, GitCommit, BuildDate)
}

type versionText struct{ health.VersionInfo }

func (v versionText) Text() string {
	return fmt.Sprintf("odrlcheck %s\nGit Commit: %s\nBuild Date: %s\nGo Version: %s\n",
		v.Version, v.Commit, v.BuildTime, v.GoVersion)
}

func printVersion(out io.Writer, format string) error {
	f, err := cli.ParseFormat(format, cli.FormatText, cli.FormatJSON)
	if err != nil {
		return err
	}
	if f == cli.FormatJSON {
		return cli.NewFormatter(f).FormatTo(out, versionInfo())
	}
	return cli.NewFormatter(f).FormatTo(out, versionText{versionInfo()})
}
