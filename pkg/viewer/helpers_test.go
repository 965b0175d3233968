package viewer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/vitrine/internal/testasset"
)

var discard = slog.New(slog.DiscardHandler)

// writeBox writes a box GLB of size (2,4,2) centered at (1,1,1) and returns
// its path.
func writeBox(t *testing.T, animated bool) string {
	t.Helper()
	return writeDoc(t, testasset.Box([3]float32{2, 4, 2}, [3]float32{1, 1, 1}, animated))
}

// writeDoc encodes doc as GLB into a temp file and returns its path.
func writeDoc(t *testing.T, doc *gltf.Document) string {
	t.Helper()
	data, err := testasset.GLB(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "box.glb")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testConfig(model string) Config {
	cfg := DefaultConfig()
	cfg.Model = model
	cfg.Headless.Width = 64
	cfg.Headless.Height = 48
	return cfg
}

// newLoadedSession creates a session and runs its load to completion.
func newLoadedSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, discard)
	require.NoError(t, err)
	for ev := range s.loader.Start(context.Background(), cfg.Model) {
		s.HandleLoad(ev)
	}
	return s
}
