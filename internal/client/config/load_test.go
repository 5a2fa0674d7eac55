package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func parsedFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func Test_parseEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("USERDESK_API_KEY=from-file\nUSERDESK_LOG_LEVEL=warn\n"), 0o600))

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg, dotenv, lookupFrom(map[string]string{
		"USERDESK_LOG_LEVEL": "debug",
		"USERDESK_BASE_URL":  "http://env/api",
	})))

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel, "process env wins over .env")
	assert.Equal(t, "http://env/api", cfg.BaseURL)
	assert.Equal(t, "userdesk.db", cfg.StorePath)
}

func Test_parseEnv_MissingDotEnvIgnored(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg, filepath.Join(t.TempDir(), ".env"), lookupFrom(nil)))
	assert.Equal(t, "https://reqres.in/api", cfg.BaseURL)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"base_url":   "http://json/api",
		"store_path": "json.db",
		"log_format": "json",
	})
	env := lookupFrom(map[string]string{
		"USERDESK_BASE_URL":   "http://env/api",
		"USERDESK_STORE_PATH": "env.db",
		"USERDESK_API_KEY":    "env-key",
	})

	f := parsedFlags(t, "-c", jsonPath, "--store", "flag.db")
	cfg, err := load(f, "", env)
	require.NoError(t, err)

	want := &Config{
		BaseURL:   "http://json/api",
		StorePath: "flag.db",
		APIKey:    "env-key",
		LogLevel:  "info",
		LogFormat: "json",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_DefaultFlagValuesDoNotOverride(t *testing.T) {
	f := parsedFlags(t)
	cfg, err := load(f, "", lookupFrom(map[string]string{"USERDESK_BASE_URL": "http://env/api"}))
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.BaseURL)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	jsonPath := writeTempJSON(t, "", "", map[string]any{"api_key": "json-key"})
	cfg, err := load(nil, "", lookupFrom(map[string]string{"USERDESK_CONFIG": jsonPath}))
	require.NoError(t, err)
	assert.Equal(t, "json-key", cfg.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	f := parsedFlags(t, "-a", "not-absolute")
	_, err := load(f, "", lookupFrom(nil))
	require.ErrorContains(t, err, "must be absolute")
}
