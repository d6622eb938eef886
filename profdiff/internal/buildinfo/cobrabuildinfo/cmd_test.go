package cobrabuildinfo

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	Init(root)

	cmd, _, err := root.Find([]string{"version"})
	require.NoError(t, err)
	require.Equal(t, "version", cmd.Name())
	require.NotNil(t, cmd.Flags().Lookup("short"))
}
