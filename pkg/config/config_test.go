package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/stegano/pkg/format"
)

// isolate points HOME and the working directory at fresh temp dirs and
// clears every STEGANO_* variable.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	tempDir := t.TempDir()

	home = filepath.Join(tempDir, "home")
	work = filepath.Join(tempDir, "work")
	require.NoError(t, os.Mkdir(home, 0o755))
	require.NoError(t, os.Mkdir(work, 0o755))
	t.Setenv("HOME", home)

	for _, key := range []string{"STEGANO_CHANNEL", "STEGANO_STRICT", "STEGANO_FORMAT", "STEGANO_WORKERS", "STEGANO_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	require.NoError(t, os.Chdir(work))

	return home, work
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	home, work := isolate(t)

	require.NoError(t, os.Mkdir(filepath.Join(home, ".stegano"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".stegano", "config.yml"), []byte(`
channel: 1
workers: 2
log_level: info
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(work, "stegano.yml"), []byte(`
channel: 2
output_format: tiff
`), 0o644))

	explicit := filepath.Join(work, "custom.yml")
	require.NoError(t, os.WriteFile(explicit, []byte(`strict: true
workers: 8
`), 0o644))

	t.Setenv("STEGANO_WORKERS", "16")

	cfg, err := Load(explicit)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Channel, "local file beats home file")
	assert.Equal(t, format.TIFF, cfg.OutputFormat)
	assert.True(t, cfg.Strict, "explicit file applies")
	assert.Equal(t, 16, cfg.Workers, "env beats every file")
	assert.Equal(t, "info", cfg.LogLevel, "home file value survives when not overridden")
}

func TestLoadEnv(t *testing.T) {
	isolate(t)

	t.Setenv("STEGANO_CHANNEL", "3")
	t.Setenv("STEGANO_STRICT", "true")
	t.Setenv("STEGANO_FORMAT", "BMP")
	t.Setenv("STEGANO_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Channel)
	assert.True(t, cfg.Strict)
	assert.Equal(t, format.BMP, cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]func(t *testing.T, work string){
		"lossy format in file": func(t *testing.T, work string) {
			require.NoError(t, os.WriteFile(filepath.Join(work, "stegano.yml"), []byte("output_format: jpeg\n"), 0o644))
		},
		"unknown format": func(t *testing.T, work string) {
			require.NoError(t, os.WriteFile(filepath.Join(work, "stegano.yml"), []byte("output_format: exr\n"), 0o644))
		},
		"channel out of range": func(t *testing.T, work string) {
			t.Setenv("STEGANO_CHANNEL", "4")
		},
		"non numeric workers": func(t *testing.T, work string) {
			t.Setenv("STEGANO_WORKERS", "many")
		},
		"unknown log level in file": func(t *testing.T, work string) {
			require.NoError(t, os.WriteFile(filepath.Join(work, "stegano.yml"), []byte("log_level: loud\n"), 0o644))
		},
		"unknown log level in env": func(t *testing.T, work string) {
			t.Setenv("STEGANO_LOG_LEVEL", "x")
		},
		"broken yaml": func(t *testing.T, work string) {
			require.NoError(t, os.WriteFile(filepath.Join(work, "stegano.yml"), []byte("channel: [\n"), 0o644))
		},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			_, work := isolate(t)
			setup(t, work)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, work := isolate(t)
	_, err := Load(filepath.Join(work, "nope.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
