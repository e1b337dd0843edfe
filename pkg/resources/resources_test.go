package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	paths map[string]string
	err   error
}

func (f *fakeRetriever) ResourceGet(name string) (string, error) {
	return f.paths[name], f.err
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "resource")
	require.NoError(t, os.WriteFile(src, []byte("resource content"), 0600))
	dst := filepath.Join(dir, "target")

	retriever := &fakeRetriever{paths: map[string]string{"myresource": src}}
	require.NoError(t, Save(retriever, "myresource", dst))

	// The target holds the content and the original file is no more.
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "resource content", string(data))
	assert.NoFileExists(t, src)
}

func TestSaveUnavailable(t *testing.T) {
	retriever := &fakeRetriever{}

	err := Save(retriever, "bad-resource", filepath.Join(t.TempDir(), "target"))
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), `cannot retrieve resource "bad-resource"`)
}

func TestSaveRetrieverError(t *testing.T) {
	retriever := &fakeRetriever{err: assert.AnError}

	err := Save(retriever, "myresource", filepath.Join(t.TempDir(), "target"))
	require.ErrorIs(t, err, ErrUnavailable)
	// The retriever's own failure stays in the chain so a hook tool error
	// is distinguishable from a missing resource.
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), `cannot retrieve resource "myresource"`)
}

func TestTermserverPath(t *testing.T) {
	assert.Equal(t, "/var/tmp/termserver.tar.gz", TermserverPath(false))
	assert.Equal(t, "/var/tmp/termserver-limited.tar.gz", TermserverPath(true))
}
