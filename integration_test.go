package cccp

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findCC returns a usable C compiler or skips the test.
func findCC(t *testing.T) string {
	t.Helper()
	for _, cc := range []string{"cc", "gcc", "clang"} {
		if path, err := exec.LookPath(cc); err == nil {
			return path
		}
	}
	t.Skip("no C compiler available")
	return ""
}

func TestRunDemo(t *testing.T) {
	cc := findCC(t)
	e := newTestEngine(t, WithCC(cc))

	out, err := e.Run(context.Background(), filepath.Join("testdata", "demo.cccp"))
	require.NoError(t, err)
	assert.Equal(t, "8\n24\n", out)
}

func TestRunStrings(t *testing.T) {
	cc := findCC(t)
	e := newTestEngine(t, WithCC(cc))

	out, err := e.Run(context.Background(), filepath.Join("testdata", "strings.cccp"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!\nmatch\n", out)
}

func TestBuildWritesArtifacts(t *testing.T) {
	cc := findCC(t)
	e := newTestEngine(t, WithCC(cc))
	outDir := t.TempDir()

	binPath, err := e.Build(context.Background(), filepath.Join("testdata", "demo.cccp"), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "demo"), binPath)

	// The generated C lands next to the binary.
	assert.FileExists(t, filepath.Join(outDir, "demo.c"))
}
