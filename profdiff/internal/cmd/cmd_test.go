package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/yandex/profdiff/profdiff/internal/cli"
)

const sampleLog = `{"methodName":"a()","compilationId":"1","inliningTreeRoot":{"methodName":"a()","callsiteBci":-1,"inlined":false,"indirect":false,"alive":true,"invokes":[{"methodName":"b()","callsiteBci":3,"inlined":true,"reason":["trivial"],"indirect":false,"alive":true}]},"optimizationTree":{"phaseName":"RootPhase","optimizations":[{"optimizationName":"Canonicalizer","eventName":"DeadNodeRemoval","position":{"a()":1}}]}}
`

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		*flagConfig = *cli.DefaultConfig()
		configPath = ""
		reportProfile = ""
		reportCompilationKind = "jit"
	})
}

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	resetFlags(t)

	conf, err := loadConfig(parseFlags(t))
	require.NoError(t, err)
	require.Equal(t, cli.DefaultConfig(), conf)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	resetFlags(t)

	path := writeFile(t, "config.yaml", `
hot_policy:
  hot_percentile: 0.5
  hot_min_limit: 2
  hot_max_limit: 4
report:
  prune_identities: false
jobs: 3
`)
	conf, err := loadConfig(parseFlags(t,
		"--config", path,
		"--hot-max-limit", "7",
		"--long-bci",
		"--optimization-context-tree",
		"--sample-type", "cpu",
	))
	require.NoError(t, err)

	require.Equal(t, 0.5, conf.HotPolicy.HotPercentile)
	require.Equal(t, 2, conf.HotPolicy.HotMinLimit)
	require.Equal(t, 7, conf.HotPolicy.HotMaxLimit)
	require.True(t, conf.Report.BCILongForm)
	require.True(t, conf.Report.OptimizationContextTree)
	require.False(t, conf.Report.PruneIdentities)
	require.True(t, conf.Report.SortUnorderedPhases)
	require.Equal(t, "cpu", conf.Profile.SampleType)
	require.Equal(t, 3, conf.Jobs)
}

func TestLoadConfigMissingFile(t *testing.T) {
	resetFlags(t)

	_, err := loadConfig(parseFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCommandsAreRegistered(t *testing.T) {
	for _, name := range []string{"report", "jit-vs-jit", "jit-vs-aot", "aot-vs-aot", "version"} {
		found, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, found.Name())
	}
}

func TestExecuteReport(t *testing.T) {
	resetFlags(t)
	log := writeFile(t, "optimization_log.txt", sampleLog)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"report", "--log-level", "error", log})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), "Experiment 1 (jit)")
	require.Contains(t, out.String(), "Method a()")
	require.Contains(t, out.String(), "Canonicalizer DeadNodeRemoval at bci 1")
}

func TestExecuteReportWithCompilationKind(t *testing.T) {
	resetFlags(t)
	log := writeFile(t, "optimization_log.txt", sampleLog)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"report", "--log-level", "error", "--compilation-kind", "aot", log})
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), "Experiment 1 (aot)")

	rootCmd.SetArgs([]string{"report", "--log-level", "error", "--compilation-kind", "interpreted", log})
	require.ErrorContains(t, rootCmd.Execute(), `unknown compilation kind "interpreted"`)
}

func TestExecuteCompareRequiresFourArguments(t *testing.T) {
	resetFlags(t)

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"jit-vs-aot", "a", "b"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.Error(t, rootCmd.Execute())
}
