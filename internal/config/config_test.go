package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range EnvVars {
		t.Setenv(v, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name:   "defaults",
			config: *Default(),
		},
		{
			name:    "indent too wide",
			config:  Config{IndentSpaces: 40},
			wantErr: true,
			errMsg:  "indent_spaces",
		},
		{
			name:    "unsupported language",
			config:  Config{Language: "cobol"},
			wantErr: true,
			errMsg:  "unsupported language",
		},
		{
			name:    "invalid log level",
			config:  Config{LogLevel: "loud"},
			wantErr: true,
			errMsg:  "invalid log_level",
		},
		{
			name:    "invalid log format",
			config:  Config{LogFormat: "xml"},
			wantErr: true,
			errMsg:  "log_format",
		},
		{
			name:    "invalid output format",
			config:  Config{OutputFormat: "table"},
			wantErr: true,
			errMsg:  "output_format",
		},
		{
			name:   "upper case level",
			config: Config{LogLevel: "DEBUG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{IndentSpaces: 2, LogFormat: "json"}
	cfg.ApplyDefaults()

	assert.Equal(t, 2, cfg.IndentSpaces)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultOutputFormat, cfg.OutputFormat)
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ICE_INDENT_SPACES", "2")
		t.Setenv("ICE_LANGUAGE", "python")
		t.Setenv("ICE_LOG_LEVEL", "debug")
		t.Setenv("ICE_LOG_FORMAT", "json")
		t.Setenv("ICE_OUTPUT_FORMAT", "plain")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, 2, cfg.IndentSpaces)
		assert.Equal(t, "python", cfg.Language)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "plain", cfg.OutputFormat)
	})

	t.Run("empty env vars keep existing values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ICE_LOG_LEVEL", "trace")

		cfg := &Config{IndentSpaces: 8, LogFormat: "console"}
		cfg.LoadFromEnv()

		assert.Equal(t, "trace", cfg.LogLevel)
		assert.Equal(t, 8, cfg.IndentSpaces)
		assert.Equal(t, "console", cfg.LogFormat)
	})

	t.Run("malformed indent is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ICE_INDENT_SPACES", "wide")

		cfg := &Config{IndentSpaces: 4}
		cfg.LoadFromEnv()

		assert.Equal(t, 4, cfg.IndentSpaces)
	})

	t.Run("LOG_LEVEL used when ICE_LOG_LEVEL not set", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "info")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("ICE_LOG_LEVEL takes precedence over LOG_LEVEL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "info")
		t.Setenv("ICE_LOG_LEVEL", "error")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "error", cfg.LogLevel)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	path := DefaultConfigPath()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, home))
	assert.Contains(t, path, "ice")
	assert.True(t, filepath.Ext(path) == ".yml" || filepath.Ext(path) == ".yaml")
}

func TestDefaultConfigPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "ice", "config.yml"), DefaultConfigPath())
}

func TestConfig_Save_and_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	original := Config{
		IndentSpaces: 2,
		Language:     "python",
		LogLevel:     "debug",
		LogFormat:    "json",
		OutputFormat: "plain",
	}

	require.NoError(t, original.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWithEnv(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "config.yml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("env overrides file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, (&Config{IndentSpaces: 2, LogLevel: "info"}).Save(path))
		t.Setenv("ICE_LOG_LEVEL", "trace")

		cfg, err := LoadWithEnv(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.IndentSpaces)
		assert.Equal(t, "trace", cfg.LogLevel)
		assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("indent_spaces: [1"), 0600))

		_, err := LoadWithEnv(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestGetEnvWithFallback(t *testing.T) {
	t.Run("returns primary when set", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "primary-value")
		t.Setenv("TEST_FALLBACK", "fallback-value")
		assert.Equal(t, "primary-value", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})

	t.Run("returns fallback when primary empty", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "fallback-value")
		assert.Equal(t, "fallback-value", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})

	t.Run("returns empty when both empty", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "")
		assert.Equal(t, "", getEnvWithFallback("TEST_PRIMARY", "TEST_FALLBACK"))
	})
}
