package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dastanaron/echohive/internal/models"
	"github.com/dastanaron/echohive/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ECHOHIVE_LOG_OUTPUT", filepath.Join(home, "echohive.log"))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "echohive version dev\n", execute(t, "version"))
}

func TestExportFromSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food.json")

	out := execute(t, "--driver", "memory", "--profile", "food", "export", "--format", "json", "-o", path)
	assert.Contains(t, out, "Exported 4 item(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	items, err := persistence.Decode(string(data))
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestImportIntoSQLite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "echohive.db")
	src := filepath.Join(dir, "cards.html")
	require.NoError(t, os.WriteFile(src, []byte(`<article class="card" data-category="Cities"><img src="https://example.com/lisbon.jpg"><h3>Lisbon Trams</h3><p>Up and down the hills.</p></article>`), 0o644))

	out := execute(t, "--db", db, "import", src)
	assert.Contains(t, out, "Imported 1 of 1 item(s).")

	out = execute(t, "--db", db, "export", "--format", "html", "-o", filepath.Join(dir, "out.html"))
	assert.Contains(t, out, "Exported 5 item(s)")
}

func TestUnknownProfileFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--driver", "memory", "--profile", "recipes", "reset"})
	assert.Error(t, root.Execute())
}

func TestPromptConfirm(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirm(strings.NewReader("y\nno\n"), &out)
	item := models.ContentItem{ID: 7, Title: "Ramen"}

	assert.True(t, confirm(item))
	assert.False(t, confirm(item))
	assert.False(t, confirm(item), "eof declines")
	assert.Contains(t, out.String(), "Delete 'Ramen' (ID: 7)? [y/N] ")
}
