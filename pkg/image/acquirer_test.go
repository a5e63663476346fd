package image

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	root string
}

func newMemStore(t *testing.T) *memStore {
	return &memStore{root: t.TempDir()}
}

func (m *memStore) Exists(id string) bool {
	info, err := os.Stat(filepath.Join(m.root, id))
	return err == nil && info.IsDir()
}

func (m *memStore) CreateVolume(id string) error {
	return os.MkdirAll(filepath.Join(m.root, id), 0o755)
}

func (m *memStore) DeleteVolume(id string) error {
	return os.RemoveAll(filepath.Join(m.root, id))
}

func (m *memStore) Path(id string, elem ...string) string {
	return filepath.Join(append([]string{m.root, id}, elem...)...)
}

func (m *memStore) WriteMeta(id, relPath string, data []byte) error {
	return os.WriteFile(filepath.Join(m.root, id, relPath), data, 0o644)
}

// buildArchive assembles a single tar.gz whose top-level entries are
// exactly the given name->content pairs, mirroring the flat layout of
// a docker-save archive (manifest.json alongside each layer tar).
func buildArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

// layerTar builds a standalone tar (uncompressed) containing the
// given files, for use as a manifest layer member.
func layerTar(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func TestPullFlattensLayers(t *testing.T) {
	layer0 := layerTar(t, map[string]string{"etc/hostname": "base\n"})
	layer1 := layerTar(t, map[string]string{"etc/hostname": "top\n"})

	manifest := []manifestEntry{{
		RepoTags: []string{"demo:latest"},
		Config:   "config.json",
		Layers:   []string{"layer0.tar", "layer1.tar"},
	}}
	manifestJSON, err := json.Marshal(manifest)
	require.NoError(t, err)

	archive := buildArchive(t, map[string][]byte{
		"manifest.json": manifestJSON,
		"layer0.tar":    layer0,
		"layer1.tar":    layer1,
	})

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(archive)
	}))
	defer srv.Close()

	store := newMemStore(t)
	a := New(store, srv.Listener.Addr().String())
	a.client = srv.Client()
	imageID, err := a.Pull("demo", "latest")
	require.NoError(t, err)

	got, err := os.ReadFile(store.Path(imageID, "etc/hostname"))
	require.NoError(t, err)
	require.Equal(t, "top\n", string(got), "flattened content should take the top layer")

	source, err := os.ReadFile(store.Path(imageID, "img.source"))
	require.NoError(t, err)
	require.Equal(t, "demo:latest", string(source))
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("hi"), 0o644))

	store := newMemStore(t)
	a := New(store, "unused.example")
	imageID, err := a.Import(dir)
	require.NoError(t, err)

	got, err := os.ReadFile(store.Path(imageID, "marker"))
	require.NoError(t, err)
	require.Equal(t, "hi", string(got))
}
