package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rawbytedev/aglio/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "aglio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAndPackConfig(t *testing.T) {
	path := writeTemp(t, `
package_start: 43981
crc: crc32
header_crc: true
size: "32"
max_size: 4096
log_level: debug
`)
	f, err := config.Load(path)
	require.NoError(t, err)

	cfg, err := f.PackConfig()
	require.NoError(t, err)
	assert.True(t, cfg.UsePackageStart)
	assert.Equal(t, uint64(43981), cfg.PackageStart)
	assert.True(t, cfg.UseCrc)
	assert.True(t, cfg.UseHeaderCrc)
	assert.Equal(t, uint64(4096), cfg.MaxSize)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeTemp(t, "bogus_key: true\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestDefaultProducesValidPackConfig(t *testing.T) {
	cfg, err := config.Default().PackConfig()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestPackConfigRejectsUnknownCrc(t *testing.T) {
	f := config.Default()
	f.Crc = "sha256"
	_, err := f.PackConfig()
	assert.Error(t, err)
}
