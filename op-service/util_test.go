package op_service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPrefixEnvVar(t *testing.T) {
	require.Equal(t, []string{"OP_CHAINVIEW_READERS"}, PrefixEnvVar("OP_CHAINVIEW", "READERS"))
}

func TestValidEnvVarName(t *testing.T) {
	require.True(t, ValidEnvVarName("OP_CHAINVIEW_MAX_TAIL_SIZE"))
	require.False(t, ValidEnvVarName(""))
	require.False(t, ValidEnvVarName("_LEADING"))
	require.False(t, ValidEnvVarName("lower_case"))
	require.False(t, ValidEnvVarName("DASH-ED"))
}

func TestFormatVersion(t *testing.T) {
	require.Equal(t, "v1.2.3", FormatVersion("v1.2.3", "", "", ""))
	require.Equal(t, "v1.2.3-abcdef01-1700000000-dev", FormatVersion("v1.2.3", "abcdef0123456789", "1700000000", "dev"))
	require.Equal(t, "v1.2.3-abc", FormatVersion("v1.2.3", "abc", "", ""))
}

func TestValidateEnvVars(t *testing.T) {
	provided := []string{"OP_CHAINVIEW_READERS=4", "OP_CHAINVIEW_FAKE=1", "OTHER=2"}
	defined := map[string]struct{}{"OP_CHAINVIEW_READERS": {}}
	require.Equal(t, []string{"OP_CHAINVIEW_FAKE=1"}, validateEnvVars("OP_CHAINVIEW", provided, defined))
}

func TestCLIFlagsToEnvVars(t *testing.T) {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "test", EnvVars: []string{"OP_CHAINVIEW_TEST"}},
		&cli.IntFlag{Name: "no-env"},
	}
	require.Equal(t, map[string]struct{}{"OP_CHAINVIEW_TEST": {}}, cliFlagsToEnvVars(flags))
}

func TestFlagNameToEnvVarName(t *testing.T) {
	require.Equal(t, "OP_CHAINVIEW_RPC_PORT", FlagNameToEnvVarName("rpc.port", "OP_CHAINVIEW"))
	require.Equal(t, "OP_CHAINVIEW_MAX_TAIL_SIZE", FlagNameToEnvVarName("max-tail-size", "OP_CHAINVIEW"))
}
