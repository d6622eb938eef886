package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yandex/profdiff/profdiff/internal/cli"
	"github.com/yandex/profdiff/profdiff/internal/command"
	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/pkg/must"
)

var (
	reportProfile         string
	reportCompilationKind string

	reportCmd = &cobra.Command{
		Use:   "report <optimization log>",
		Short: "Print the hot compilations of one execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := experiment.ParseCompilationKind(reportCompilationKind)
			if err != nil {
				return err
			}
			return run(cmd, func(app *cli.App, runner *command.Runner) error {
				return runner.Report(app.Context(), command.Input{
					OptimizationLog: args[0],
					Profile:         reportProfile,
				}, kind)
			})
		},
	}
)

func init() {
	reportCmd.Flags().StringVarP(
		&reportProfile,
		"profile",
		"p",
		"",
		"Path to pprof profile of the execution",
	)
	must.Must(reportCmd.MarkFlagFilename("profile"))

	reportCmd.Flags().StringVarP(
		&reportCompilationKind,
		"compilation-kind",
		"k",
		experiment.CompilationKindJIT.String(),
		"How the execution was compiled, one of ('jit', 'aot')",
	)

	rootCmd.AddCommand(reportCmd)
}
