package cobrabuildinfo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yandex/profdiff/profdiff/internal/buildinfo"
)

func make() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !short {
				return buildinfo.Dump(cmd.OutOrStdout())
			}
			version, err := buildinfo.Version()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print the module version only")
	return cmd
}

// Init adds the version subcommand to cmd.
func Init(cmd *cobra.Command) {
	cmd.AddCommand(make())
}
