package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const penURL = "https://codepen.io/johndjameson/pen/DwxMqa"

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	w, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, w.OutputDir)
	assert.DirExists(t, dir)
}

func TestWriteOnly(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := w.WriteOnly(penURL, []byte("# pen\n"), ".md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.OutputDir, "johndjameson_DwxMqa.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# pen\n", string(data))
}

func TestWriteAll(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := w.WriteAll(penURL, []byte("{}"), ".json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(w.OutputDir, "johndjameson", "DwxMqa.json"), path)
	assert.FileExists(t, path)
}

func TestWrite_RejectsNonPenURL(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = w.WriteOnly("https://codepen.io/johndjameson", nil, ".md")
	assert.Error(t, err)
	_, err = w.WriteAll("https://codepen.io/a/full/b", nil, ".md")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "john_d-jameson", sanitize("john.d-jameson"))
	assert.Equal(t, "_____", sanitize("../.."))
}
