package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houzhh15/mt-console/pkg/storage"
)

// chdirTemp 切换到临时目录，避免读取仓库中的 .env
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdirTemp(t)
	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
	assert.Equal(t, 240*time.Second, cfg.API.AskTimeout())
	assert.Equal(t, BackendFile, cfg.State.Backend)
	assert.NotEmpty(t, cfg.State.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://10.0.0.5:9000
  timeout_seconds: 15
state:
  backend: memory
lang: en
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
	assert.Equal(t, 240, cfg.API.AskTimeoutSeconds)
	assert.Equal(t, BackendMemory, cfg.State.Backend)
	assert.Equal(t, "en", cfg.Lang)

	t.Setenv("MT_API_BASE_URL", "https://console.example.com")
	t.Setenv("MT_ASK_TIMEOUT", "120")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com", cfg.API.BaseURL)
	assert.Equal(t, 120, cfg.API.AskTimeoutSeconds)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MT_LANG=en\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MT_LANG") })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Lang)
}

func TestLoad_InvalidInt(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("MT_TIMEOUT", "thirty")
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"default ok", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.API.BaseURL = "localhost:8080" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSeconds = 0 }, true},
		{"huge ask timeout", func(c *Config) { c.API.AskTimeoutSeconds = 1000 }, true},
		{"redis without addr", func(c *Config) { c.State.Backend = BackendRedis }, true},
		{"redis with addr", func(c *Config) { c.State.Backend = BackendRedis; c.State.RedisAddr = "127.0.0.1:6379" }, false},
		{"unknown backend", func(c *Config) { c.State.Backend = "sqlite" }, true},
		{"bad output", func(c *Config) { c.Output = "yaml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	c := Default()
	c.State.Backend = BackendMemory
	s, closeFn, err := c.OpenStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStore{}, s)
	assert.NoError(t, closeFn())

	c = Default()
	c.State.File = filepath.Join(t.TempDir(), "nested", "state.json")
	s, closeFn, err = c.OpenStore(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Set(storage.KeyIsLogin, "true"))
	assert.FileExists(t, c.State.File)
	assert.NoError(t, closeFn())

	c = Default()
	c.State.Backend = BackendRedis
	_, closeFn, err = c.OpenStore(ctx)
	assert.Error(t, err, "empty redis addr")
	assert.NotNil(t, closeFn)

	c.State.Backend = "etcd"
	_, _, err = c.OpenStore(ctx)
	assert.Error(t, err)
}
