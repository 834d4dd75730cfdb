package log

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(JSONHandler(&buf))
	hash := common.Hash{0xaa}
	var nilNum *uint256.Int
	logger.Trace("block", "hash", hash, "num", big.NewInt(42), "fee", uint256.NewInt(7), "missing", nilNum)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "trace", out["lvl"], "every level passes, filtering happens in DynamicLogHandler")
	require.Contains(t, out, "t")
	require.Equal(t, hash.String(), out["hash"])
	require.Equal(t, "42", out["num"])
	require.Equal(t, "7", out["fee"])
	require.Equal(t, "<nil>", out["missing"])
}

func TestLogfmtHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(LogfmtHandler(&buf))
	at := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	logger.Info("tick", "at", at)

	require.Contains(t, buf.String(), "lvl=info")
	require.Contains(t, buf.String(), "at=2024-01-02T03:04:05.006+0000")
	require.NotContains(t, buf.String(), "time=")
}
