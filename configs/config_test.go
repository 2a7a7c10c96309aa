package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := Config{
		RPC: RPCConfig{
			URL:       "https://api.s0.t.hmny.io",
			Namespace: "hmy",
		},
		Formatter: FormatterConfig{ShardID: 3},
		Watch:     WatchConfig{Interval: 1000, BlocksPerPoll: 20},
		Metrics:   MetricsConfig{Addr: "127.0.0.1:2112"},
	}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, (&Config{}).Validate())

	invalid := map[string]Config{
		"url":       {RPC: RPCConfig{URL: "not a url"}},
		"namespace": {RPC: RPCConfig{Namespace: "debug"}},
		"shard":     {Formatter: FormatterConfig{ShardID: 1024}},
		"batch":     {RPC: RPCConfig{Blocks: RPCBlocksConfig{BlocksPerRequest: -1}}},
		"interval":  {Watch: WatchConfig{Interval: -1}},
		"metrics":   {Metrics: MetricsConfig{Addr: "no-port"}},
	}
	for name, cfg := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorContains(t, cfg.Validate(), "invalid config")
		})
	}
}

func TestLoadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yml")
	content := `
rpc:
  url: https://api.s1.t.hmny.io
  blocks:
    blocksPerRequest: 20
formatter:
  shardId: 1
log:
  level: debug
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	t.Cleanup(func() { Cfg = Config{} })

	require.NoError(t, LoadConfig(file))
	assert.Equal(t, "https://api.s1.t.hmny.io", Cfg.RPC.URL)
	assert.Equal(t, 20, Cfg.RPC.Blocks.BlocksPerRequest)
	assert.Equal(t, uint32(1), Cfg.Formatter.ShardID)
	assert.Equal(t, "debug", Cfg.Log.Level)
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "error reading config file")
}
