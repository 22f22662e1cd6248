package errorpage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(DefaultPublicDir, 0o755))
	require.NoError(t, fs.MkdirAll(DefaultResourceDir, 0o755))
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func referenceRules() Rules {
	return NewRules(
		PublicForStatus("404.html", http.StatusNotFound),
		ResourceFromStatus("5xx.html", http.StatusInternalServerError),
	)
}

func TestResolver_ReferenceConfiguration(t *testing.T) {
	fs := newFS(t, map[string]string{
		"Public/404.html":    "<h1>missing</h1>",
		"Resources/5xx.html": "<h1>broken</h1>",
	})
	r := NewResolver(fs, DefaultDirs(), referenceRules())

	res := r.Resolve(http.StatusNotFound)
	require.Equal(t, Found, res.Kind)
	assert.Equal(t, "<h1>missing</h1>", string(res.Body))
	assert.Equal(t, "Public/404.html", res.Path)

	res = r.Resolve(http.StatusServiceUnavailable)
	require.Equal(t, Found, res.Kind)
	assert.Equal(t, "<h1>broken</h1>", string(res.Body))
	assert.Equal(t, Resource, res.Rule.Location)

	res = r.Resolve(http.StatusForbidden)
	assert.Equal(t, NotFound, res.Kind)
	assert.Empty(t, res.Path)
	assert.Nil(t, res.Body)
}

func TestResolver_MissingFileIsNotFound(t *testing.T) {
	fs := newFS(t, nil)
	r := NewResolver(fs, DefaultDirs(), referenceRules())

	res := r.Resolve(http.StatusNotFound)
	assert.Equal(t, NotFound, res.Kind)
	assert.Equal(t, "Public/404.html", res.Path)
	assert.NoError(t, res.Err)
}

func TestResolver_DirectoryIsNotFound(t *testing.T) {
	fs := newFS(t, nil)
	require.NoError(t, fs.MkdirAll("Public/404.html", 0o755))
	r := NewResolver(fs, DefaultDirs(), referenceRules())

	res := r.Resolve(http.StatusNotFound)
	assert.Equal(t, NotFound, res.Kind)
	assert.Nil(t, res.Body)
}

func TestResolver_CustomDirs(t *testing.T) {
	fs := newFS(t, map[string]string{"static/errors/oops.html": "oops"})
	rules := NewRules(PublicThroughStatus("oops.html", 599))
	r := NewResolver(fs, Dirs{Public: "static/errors", Resource: "tpl"}, rules)

	res := r.Resolve(418)
	require.Equal(t, Found, res.Kind)
	assert.Equal(t, "oops", string(res.Body))
}

type failingOpenFS struct {
	billy.Filesystem
}

func (f failingOpenFS) Open(string) (billy.File, error) {
	return nil, errors.New("permission denied")
}

func TestResolver_ReadFailure(t *testing.T) {
	fs := newFS(t, map[string]string{"Resources/5xx.html": "x"})
	r := NewResolver(failingOpenFS{fs}, DefaultDirs(), referenceRules())

	res := r.Resolve(http.StatusInternalServerError)
	require.Equal(t, ReadFailed, res.Kind)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "permission denied")
	assert.Nil(t, res.Body)
}

func TestResolver_ConcurrentUseOnDisk(t *testing.T) {
	fs := osfs.New(t.TempDir())
	require.NoError(t, util.WriteFile(fs, "Public/404.html", []byte("nf"), 0o644))
	r := NewResolver(fs, DefaultDirs(), referenceRules())

	done := make(chan Result, 16)
	for range 16 {
		go func() { done <- r.Resolve(http.StatusNotFound) }()
	}
	for range 16 {
		res := <-done
		assert.Equal(t, Found, res.Kind)
		assert.Equal(t, "nf", string(res.Body))
	}
}

func TestResolver_RulesAndPath(t *testing.T) {
	r := NewResolver(memfs.New(), Dirs{Public: "www", Resource: "tpl"}, referenceRules())

	all := r.Rules().All()
	require.Len(t, all, 2)
	assert.Equal(t, "tpl/5xx.html", r.Path(all[0]))
	assert.Equal(t, "www/404.html", r.Path(all[1]))
}
