package docgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utilitywarehouse/iolib/testutil"
)

const samplePackage = `// Package widgets assembles widgets.
package widgets

// Widget is a thing.
type Widget struct{}

// Spin rotates the widget n times.
func (w *Widget) Spin(n int) error { return nil }

// New creates a Widget.
func New() *Widget { return &Widget{} }

// Count counts widgets.
func Count(ws []*Widget) int { return len(ws) }

func unexported() {}
`

func setupModule(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"widgets/widgets.go":       samplePackage,
		"cmd/tool/main.go":         "package main\n\nfunc main() {}\n",
		"testdata/ignored/x.go":    "package ignored\n",
		"_private/hidden/witch.go": "package hidden\n",
	})
	return root
}

func TestGenerate(t *testing.T) {
	root := setupModule(t)
	outDir := filepath.Join(t.TempDir(), "docs")

	files, err := Generate(root, outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"iolib.widgets.md"}, files)

	content, err := os.ReadFile(filepath.Join(outDir, "iolib.widgets.md"))
	require.NoError(t, err)
	page := string(content)

	assert.Contains(t, page, "# Widgets")
	assert.Contains(t, page, "## Widget")
	assert.Contains(t, page, "### Spin")
	assert.Contains(t, page, "func (w *Widget) Spin(n int) error")
	assert.Contains(t, page, "### New")
	assert.Contains(t, page, "## Count")
	assert.Contains(t, page, "Count counts widgets.")
	assert.NotContains(t, page, "unexported")
}

func TestGenerateClearsStaleOutput(t *testing.T) {
	root := setupModule(t)
	outDir := t.TempDir()
	testutil.WriteFiles(t, outDir, map[string]string{"iolib.removed.md": "stale"})

	_, err := Generate(root, outDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"iolib.widgets.md"}, testutil.ListFileNames(t, outDir))
}

func TestRenderPackageEmptyDir(t *testing.T) {
	page, err := RenderPackage(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, page)
}
