package shaders

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDefaultHasEverySection(t *testing.T) {
	s := Default()
	require.NoError(t, s.Require(KindVertex, KindFragment, KindKage))
	assert.Contains(t, s.Vertex, "gl_Position")
	assert.Contains(t, s.Fragment, "uniform vec4 u_color")
	assert.Contains(t, s.Kage, "var Color vec4")
	assert.NotContains(t, s.Vertex, marker)
}

func TestParseSplitsSections(t *testing.T) {
	src := "#shader vertex\nv1\nv2\n#shader fragment\nf1\n"
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "v1\nv2\n", s.Vertex)
	assert.Equal(t, "f1\n", s.Fragment)
	assert.Empty(t, s.Kage)
}

func TestParseSectionsMayRepeat(t *testing.T) {
	src := "#shader vertex\na\n#shader fragment\nb\n#shader vertex\nc\n"
	s, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "a\nc\n", s.Vertex)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("\n\nvoid main() {}\n"))
	assert.ErrorIs(t, err, ErrNoSection)
	assert.Contains(t, err.Error(), "line 3")

	_, err = Parse(strings.NewReader("#shader geometry\n"))
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestRequireNamesMissingSections(t *testing.T) {
	err := Source{Vertex: "x"}.Require(KindVertex, KindFragment, KindKage)
	require.ErrorIs(t, err, ErrMissingSection)
	assert.Contains(t, err.Error(), "fragment, kage")
	assert.NoError(t, Source{Kage: "k"}.Require(KindKage))
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	_, err = Load(filepath.Join(t.TempDir(), "missing.shader"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "x.shader")
	require.NoError(t, os.WriteFile(path, []byte("#shader kage\nk\n"), 0o644))
	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "k\n", s.Kage)
}

func TestWatcherDeliversReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.shader")
	require.NoError(t, os.WriteFile(path, []byte("#shader kage\nold\n"), 0o644))

	w, err := NewWatcher(zaptest.NewLogger(t), path, 10*time.Millisecond)
	require.NoError(t, err)
	w.Start(context.Background())
	defer func() { assert.NoError(t, w.Close()) }()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("#shader kage\nnew\n"), 0o644))

	select {
	case s := <-w.Updates():
		assert.Equal(t, "new\n", s.Kage)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcherSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.shader")
	require.NoError(t, os.WriteFile(path, []byte("#shader kage\nok\n"), 0o644))

	w, err := NewWatcher(zaptest.NewLogger(t), path, 10*time.Millisecond)
	require.NoError(t, err)
	w.Start(context.Background())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("#shader bogus\n"), 0o644))

	select {
	case s := <-w.Updates():
		t.Fatalf("unexpected reload: %+v", s)
	case <-time.After(200 * time.Millisecond):
	}
}
