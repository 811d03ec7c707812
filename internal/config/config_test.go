package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
table: ${METRICCONV_TABLE}
server:
  codec: protobuf
logging:
  level: debug
  format: json
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metricconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	t.Setenv("METRICCONV_TABLE", "/srv/units.hcl")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/units.hcl", cfg.Table)
	assert.Equal(t, "protobuf", cfg.Server.Codec)
	assert.Equal(t, "127.0.0.1:2001", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metricconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: ${METRICCONV_TEST_ADDR}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("METRICCONV_TEST_ADDR=0.0.0.0:9999\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("METRICCONV_TEST_ADDR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "metricconv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  codec: json\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "server.codec")

	require.NoError(t, os.WriteFile(path, []byte("server: [\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "config: parse")
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
