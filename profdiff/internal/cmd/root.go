package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yandex/profdiff/profdiff/internal/buildinfo/cobrabuildinfo"
	"github.com/yandex/profdiff/profdiff/internal/cli"
	"github.com/yandex/profdiff/profdiff/internal/command"
	"github.com/yandex/profdiff/profdiff/pkg/must"
)

var (
	configPath string
	flagConfig = cli.DefaultConfig()

	rootCmd = &cobra.Command{
		Use:           "profdiff",
		Short:         "Compare compilations of two program executions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVarP(&configPath, "config", "c", "", "Path to YAML config")
	must.Must(rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml"))

	flags.StringVar(&flagConfig.LogLevel, "log-level", flagConfig.LogLevel, "Logging level, one of ('debug', 'info', 'warn', 'error')")
	flags.IntVar(&flagConfig.HotPolicy.HotMinLimit, "hot-min-limit", flagConfig.HotPolicy.HotMinLimit, "Minimum number of hot compilation units per experiment")
	flags.IntVar(&flagConfig.HotPolicy.HotMaxLimit, "hot-max-limit", flagConfig.HotPolicy.HotMaxLimit, "Maximum number of hot compilation units per experiment")
	flags.Float64Var(&flagConfig.HotPolicy.HotPercentile, "hot-percentile", flagConfig.HotPolicy.HotPercentile, "Share of the total period covered by hot compilation units")
	flags.BoolVar(&flagConfig.Report.BCILongForm, "long-bci", flagConfig.Report.BCILongForm, "Print full positions of optimizations")
	flags.BoolVar(&flagConfig.Report.SortUnorderedPhases, "sort-unordered-phases", flagConfig.Report.SortUnorderedPhases, "Sort optimizations of phases with unordered output")
	flags.BoolVar(&flagConfig.Report.PruneIdentities, "prune-identities", flagConfig.Report.PruneIdentities, "Hide unchanged subtrees in tree diffs")
	flags.BoolVar(&flagConfig.Report.OptimizationContextTree, "optimization-context-tree", flagConfig.Report.OptimizationContextTree, "Print optimizations under the callsites they were performed in")
	flags.BoolVar(&flagConfig.Report.DiffCompilations, "diff-compilations", flagConfig.Report.DiffCompilations, "Print the difference of paired compilations instead of both of them")
	flags.StringVar(&flagConfig.Profile.SampleType, "sample-type", flagConfig.Profile.SampleType, "Profile sample type used as period, the default sample type if empty")
	flags.IntVar(&flagConfig.Jobs, "jobs", flagConfig.Jobs, "Number of compilations loaded in parallel, GOMAXPROCS if zero")

	cobrabuildinfo.Init(rootCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

////////////////////////////////////////////////////////////////////////////////

// loadConfig reads the config file if any and applies the flags set explicitly on the command line.
func loadConfig(flags *pflag.FlagSet) (*cli.Config, error) {
	conf := cli.DefaultConfig()
	if configPath != "" {
		var err error
		conf, err = cli.ParseConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	overrides := map[string]func(){
		"log-level":                 func() { conf.LogLevel = flagConfig.LogLevel },
		"hot-min-limit":             func() { conf.HotPolicy.HotMinLimit = flagConfig.HotPolicy.HotMinLimit },
		"hot-max-limit":             func() { conf.HotPolicy.HotMaxLimit = flagConfig.HotPolicy.HotMaxLimit },
		"hot-percentile":            func() { conf.HotPolicy.HotPercentile = flagConfig.HotPolicy.HotPercentile },
		"long-bci":                  func() { conf.Report.BCILongForm = flagConfig.Report.BCILongForm },
		"sort-unordered-phases":     func() { conf.Report.SortUnorderedPhases = flagConfig.Report.SortUnorderedPhases },
		"prune-identities":          func() { conf.Report.PruneIdentities = flagConfig.Report.PruneIdentities },
		"optimization-context-tree": func() { conf.Report.OptimizationContextTree = flagConfig.Report.OptimizationContextTree },
		"diff-compilations":         func() { conf.Report.DiffCompilations = flagConfig.Report.DiffCompilations },
		"sample-type":               func() { conf.Profile.SampleType = flagConfig.Profile.SampleType },
		"jobs":                      func() { conf.Jobs = flagConfig.Jobs },
	}
	flags.Visit(func(flag *pflag.Flag) {
		if override, found := overrides[flag.Name]; found {
			override()
		}
	})

	return conf, nil
}

// run bootstraps the application and passes a runner writing to the command output to f.
func run(cmd *cobra.Command, f func(app *cli.App, runner *command.Runner) error) error {
	conf, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	app, err := cli.New(conf)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	runner := command.NewRunner(app.Logger(), command.Options{
		HotPolicy: conf.HotPolicy,
		Report:    conf.Report,
		Profile:   conf.Profile,
		Jobs:      conf.Jobs,
	}, cmd.OutOrStdout())

	return f(app, runner)
}
