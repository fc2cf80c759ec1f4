package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/devboost-pro/extcheck/pkg/version"
)

type versionFormat int

const (
	versionText versionFormat = iota
	versionShort
	versionJSON
)

func newVersionCmd() *cobra.Command {
	var jsonOutput, shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the extcheck version, commit, build date and Go toolchain.

Release builds carry ldflags values; 'go install' builds report the module
version and VCS stamp. --short wins over --json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := versionText
			switch {
			case shortOutput:
				format = versionShort
			case jsonOutput:
				format = versionJSON
			}
			return writeVersion(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")

	return cmd
}

func writeVersion(w io.Writer, format versionFormat) error {
	switch format {
	case versionShort:
		_, err := fmt.Fprintln(w, version.Short())
		return err
	case versionJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(version.GetInfo())
	default:
		_, err := fmt.Fprintln(w, version.String())
		return err
	}
}
