package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/yandex/profdiff/profdiff/internal/experiment"
	"github.com/yandex/profdiff/profdiff/internal/parse"
	"github.com/yandex/profdiff/profdiff/internal/report"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "profdiff.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	conf, err := ParseConfig(writeConfig(t, `
log_level: debug
hot_policy:
  hot_max_limit: 3
report:
  bci_long_form: true
  prune_identities: false
profile:
  sample_type: cpu
jobs: 4
`))
	require.NoError(t, err)
	require.Equal(t, &Config{
		LogLevel: "debug",
		HotPolicy: experiment.HotCompilationUnitPolicy{
			HotPercentile: 0.9,
			HotMinLimit:   1,
			HotMaxLimit:   3,
		},
		Report: report.Options{
			BCILongForm:         true,
			SortUnorderedPhases: true,
			PruneIdentities:     false,
			DiffCompilations:    true,
		},
		Profile: parse.ProfileOptions{SampleType: "cpu"},
		Jobs:    4,
	}, conf)
	require.NoError(t, conf.Validate())
}

func TestParseEmptyConfig(t *testing.T) {
	conf, err := ParseConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), conf)

	_, err = ParseConfig(writeConfig(t, "jobs: [1, 2"))
	require.Error(t, err)

	_, err = ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigValidation(t *testing.T) {
	conf := DefaultConfig()
	conf.HotPolicy.HotMinLimit = 20
	require.ErrorIs(t, conf.Validate(), experiment.ErrInvalidPolicy)

	conf = DefaultConfig()
	conf.LogLevel = "verbose"
	require.Error(t, conf.Validate())

	conf = DefaultConfig()
	conf.Jobs = -1
	require.Error(t, conf.Validate())

	_, err := New(conf)
	require.Error(t, err)
}

func TestFillDefault(t *testing.T) {
	conf := &Config{HotPolicy: experiment.DefaultHotCompilationUnitPolicy()}
	conf.fillDefault()
	require.Equal(t, "info", conf.LogLevel)
	require.Equal(t, runtime.GOMAXPROCS(0), conf.Jobs)
}

func TestNewApp(t *testing.T) {
	app, err := New(DefaultConfig())
	require.NoError(t, err)
	defer app.Shutdown()

	require.NotNil(t, app.Logger())
	require.NoError(t, app.Context().Err())
	require.Positive(t, app.Config().Jobs)
	require.False(t, app.Logger().Logger().Core().Enabled(zapcore.DebugLevel))
	require.True(t, app.Logger().Logger().Core().Enabled(zapcore.InfoLevel))
}
