package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastly713/stegano/pkg/config"
	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/raster"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestInteractiveHideAndReveal(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "carrier.png"))
	require.NoError(t, err)
	require.NoError(t, format.NewWriter(f).Write(raster.Noise(32, 32, 3), format.PNG))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))

	m := initialModel(context.Background(), config.Default(), dir)
	require.Len(t, m.files, 2, "parent entry plus the one image")
	assert.Equal(t, "carrier.png", m.files[1].name)

	// Hide on a directory entry is refused.
	m, _ = press(t, m, keys("h"))
	assert.True(t, m.failed)
	assert.Equal(t, browsing, m.mode)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, keys("h"))
	require.Equal(t, askMessage, m.mode)

	m, _ = press(t, m, keys("hello tui"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, askHidePassphrase, m.mode)
	assert.Equal(t, "hello tui", m.message)

	m, _ = press(t, m, keys("pw"))
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, processing, m.mode)
	require.NotNil(t, cmd)

	m, _ = press(t, m, cmd())
	assert.Equal(t, browsing, m.mode)
	assert.False(t, m.failed, m.status)
	assert.Contains(t, m.status, "carrier_stego.png")
	require.FileExists(t, filepath.Join(dir, "carrier_stego.png"))

	// Reveal the new file: [.., carrier.png, carrier_stego.png]
	require.Len(t, m.files, 3)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, keys("r"))
	require.Equal(t, askRevealPassphrase, m.mode)

	m, _ = press(t, m, keys("pw"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	assert.False(t, m.failed, m.status)
	assert.Contains(t, m.status, "hello tui")

	// Wrong passphrase is reported as a failure.
	m, _ = press(t, m, keys("r"))
	m, _ = press(t, m, keys("nope"))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, cmd())
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "wrong passphrase")
}

func TestInteractiveCancelAndQuit(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.bmp"))
	require.NoError(t, err)
	require.NoError(t, format.NewWriter(f).Write(raster.Noise(8, 8, 1), format.BMP))
	require.NoError(t, f.Close())
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	m := initialModel(context.Background(), config.Default(), dir)
	// [.., a.bmp, sub]
	require.Len(t, m.files, 3)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, keys("h"))
	m, _ = press(t, m, keys("q"))
	assert.Equal(t, askMessage, m.mode, "q is text while prompting")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, browsing, m.mode)
	assert.Equal(t, browseHelp, m.status)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, filepath.Join(dir, "sub"), m.path)
	assert.Len(t, m.files, 1)

	m, cmd := press(t, m, keys("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, "Bye!\n", m.View())
}
