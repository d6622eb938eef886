package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yandex/profdiff/profdiff/internal/cli"
	"github.com/yandex/profdiff/profdiff/internal/command"
	"github.com/yandex/profdiff/profdiff/internal/experiment"
)

func makeCompareCommand(first, second experiment.CompilationKind) *cobra.Command {
	return &cobra.Command{
		Use: fmt.Sprintf(
			"%s-vs-%s <%s optimization log> <%s profile> <%s optimization log> <%s profile>",
			first, second, first, first, second, second,
		),
		Short: fmt.Sprintf("Compare the hot compilations of %s and %s executions", first, second),
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(app *cli.App, runner *command.Runner) error {
				return runner.Compare(
					app.Context(),
					command.Input{OptimizationLog: args[0], Profile: args[1]},
					command.Input{OptimizationLog: args[2], Profile: args[3]},
					first,
					second,
				)
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(
		makeCompareCommand(experiment.CompilationKindJIT, experiment.CompilationKindJIT),
		makeCompareCommand(experiment.CompilationKindJIT, experiment.CompilationKindAOT),
		makeCompareCommand(experiment.CompilationKindAOT, experiment.CompilationKindAOT),
	)
}
