package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "unittest-missing")

	c, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, ":8080", c.Port)
	require.Equal(t, DefaultPrecision, c.DefaultPrecision)
	require.Positive(t, c.Workers)
	require.Zero(t, c.MaxCells)
	require.Equal(t, 30*time.Second, c.RequestTimeout)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "test")
	content := "PORT=:9090\nDEFAULT_PRECISION=8\nMAX_CELLS=1000\nREQUEST_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(content), 0o600))
	t.Setenv("MAX_CELLS", "2500")

	c, err := Load(viper.New(), dir)
	require.NoError(t, err)
	require.Equal(t, ":9090", c.Port)
	require.Equal(t, 8, c.DefaultPrecision)
	require.Equal(t, 2500, c.MaxCells)
	require.Equal(t, 5*time.Second, c.RequestTimeout)
}

func TestLoad_InvalidPrecision(t *testing.T) {
	t.Setenv("APP_ENV", "unittest-missing")
	t.Setenv("DEFAULT_PRECISION", "13")

	_, err := Load(viper.New(), t.TempDir())
	require.Error(t, err)
}

func TestClampPrecision(t *testing.T) {
	require.Equal(t, 1, ClampPrecision(-4))
	require.Equal(t, 1, ClampPrecision(0))
	require.Equal(t, 7, ClampPrecision(7))
	require.Equal(t, 12, ClampPrecision(12))
	require.Equal(t, 12, ClampPrecision(99))
}
