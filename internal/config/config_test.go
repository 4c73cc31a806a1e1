package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORAGE_BACKEND", "CART_KEY", "CART_MAX_ITEMS", "STAN_ENABLED", "CART_WRITE_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "file", cfg.StorageBackend)
	require.Equal(t, "tarana_cart", cfg.CartKey)
	require.Equal(t, 50, cfg.CartMaxItems)
	require.Equal(t, 3*time.Second, cfg.CartWriteTimeout)
	require.False(t, cfg.STANEnabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("CART_MAX_ITEMS", "10")
	t.Setenv("STAN_ENABLED", "true")
	t.Setenv("CART_WRITE_TIMEOUT", "250ms")

	cfg := FromEnv()
	require.Equal(t, "redis", cfg.StorageBackend)
	require.Equal(t, 10, cfg.CartMaxItems)
	require.True(t, cfg.STANEnabled)
	require.Equal(t, 250*time.Millisecond, cfg.CartWriteTimeout)
}

func TestFromEnvBadNumbersFallBack(t *testing.T) {
	t.Setenv("CART_MAX_ITEMS", "lots")
	t.Setenv("STAN_ENABLED", "maybe")
	t.Setenv("CART_WRITE_TIMEOUT", "soon")

	cfg := FromEnv()
	require.Equal(t, 50, cfg.CartMaxItems)
	require.False(t, cfg.STANEnabled)
	require.Equal(t, 3*time.Second, cfg.CartWriteTimeout)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STAN_SUBJECT=cart.from-dotenv\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("STAN_SUBJECT", "")
	require.NoError(t, os.Unsetenv("STAN_SUBJECT"))

	cfg := Load()
	require.Equal(t, "cart.from-dotenv", cfg.STANSubject)
}
