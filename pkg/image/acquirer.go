package image

import (
	"archive/tar"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/kanelabs/bocker/pkg/identity"
	"github.com/kanelabs/bocker/pkg/log"
	"github.com/kanelabs/bocker/pkg/types"
)

// manifestEntry is one element of a legacy docker-save manifest.json:
// an ordered list of flattening-order layer tar paths per image.
type manifestEntry struct {
	RepoTags []string `json:"RepoTags"`
	Config   string   `json:"Config"`
	Layers   []string `json:"Layers"`
}

// Store is the subset of *store.Store the acquirer needs.
type Store interface {
	identity.Existence
	CreateVolume(id string) error
	DeleteVolume(id string) error
	Path(id string, elem ...string) string
	WriteMeta(id, relPath string, data []byte) error
}

// Acquirer pulls images from an HTTP registry origin or imports them
// from a local directory, materializing either as a flattened store
// volume.
type Acquirer struct {
	store    Store
	registry string
	client   *http.Client
}

// New returns an Acquirer that fetches from registry and writes
// volumes through store.
func New(store Store, registry string) *Acquirer {
	return &Acquirer{
		store:    store,
		registry: registry,
		client:   &http.Client{},
	}
}

// Pull fetches "https://<registry>/<name>_<tag>.tar.gz", flattens its
// layers, and materializes the result as a new image volume whose
// img.source is "<name>:<tag>". It returns the new image's id.
func (a *Acquirer) Pull(name, tag string) (string, error) {
	logger := log.WithComponent("image")

	scratch, err := newScratchDir()
	if err != nil {
		return "", fmt.Errorf("%w: scratch dir: %v", types.ErrAcquisitionFailure, err)
	}
	defer os.RemoveAll(scratch)

	url := fmt.Sprintf("https://%s/%s_%s.tar.gz", a.registry, name, tag)
	logger.Info().Str("url", url).Msg("pulling image")

	resp, err := a.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", types.ErrAcquisitionFailure, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: fetch %s: status %s", types.ErrAcquisitionFailure, url, resp.Status)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: gzip: %v", types.ErrMalformedImage, err)
	}
	defer gz.Close()

	if err := extractTar(gz, scratch); err != nil {
		return "", fmt.Errorf("%w: extract archive: %v", types.ErrMalformedImage, err)
	}

	manifestPath, err := locateManifest(scratch)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrMalformedImage, err)
	}
	tree := filepath.Dir(manifestPath)
	if err := applyLayers(tree, manifestPath); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrMalformedImage, err)
	}

	imageID, err := a.flatten(tree, name+":"+tag)
	if err != nil {
		return "", err
	}
	return imageID, nil
}

// Import snapshots a local directory directly into a new image
// volume, without fetching or extracting anything. img.source is set
// to the directory's absolute path.
func (a *Acquirer) Import(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", types.ErrAcquisitionFailure, dir, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", types.ErrMalformedImage, abs)
	}
	return a.flatten(abs, abs)
}

// flatten allocates a fresh image id, snapshots tree into its volume,
// and records source as img.source.
func (a *Acquirer) flatten(tree, source string) (string, error) {
	imageID, err := identity.NewID(a.store, "img_")
	if err != nil {
		return "", err
	}
	if err := a.store.CreateVolume(imageID); err != nil {
		return "", fmt.Errorf("%w: create volume for %s: %v", types.ErrStoreFailure, imageID, err)
	}
	if err := copyTree(tree, a.store.Path(imageID)); err != nil {
		a.store.DeleteVolume(imageID)
		return "", fmt.Errorf("%w: materialize %s: %v", types.ErrStoreFailure, imageID, err)
	}
	if err := a.store.WriteMeta(imageID, "img.source", []byte(source)); err != nil {
		a.store.DeleteVolume(imageID)
		return "", err
	}

	log.WithImageID(imageID).Info().Str("source", source).Msg("image materialized")
	return imageID, nil
}

// newScratchDir creates a uniquely-named temporary directory under
// os.TempDir for a single acquisition's working tree.
func newScratchDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "bocker-acquire-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// extractTar extracts every entry in r into dest, preserving regular
// files, directories, symlinks, and hardlinks.
func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeLink:
			os.Remove(target)
			linkTarget := filepath.Join(dest, hdr.Linkname)
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Link(linkTarget, target); err != nil {
				return err
			}
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}

// locateManifest walks tree depth-first and returns the path to the
// first manifest.json it finds.
func locateManifest(tree string) (string, error) {
	var found string
	err := filepath.Walk(tree, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if found != "" {
			return filepath.SkipDir
		}
		if !info.IsDir() && info.Name() == "manifest.json" {
			found = path
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("manifest.json not found")
	}
	return found, nil
}

// applyLayers extracts each manifest entry's layers in order into
// tree, deleting each layer tar as it's consumed. Later layers
// overwrite earlier ones, flattening the image.
func applyLayers(tree, manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return err
	}
	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("manifest has no entries")
	}

	base := filepath.Dir(manifestPath)
	for _, entry := range entries {
		for _, layer := range entry.Layers {
			layerPath := filepath.Join(base, layer)
			f, err := os.Open(layerPath)
			if err != nil {
				return fmt.Errorf("missing layer %s: %w", layer, err)
			}
			err = extractTar(f, tree)
			f.Close()
			if err != nil {
				return fmt.Errorf("extract layer %s: %w", layer, err)
			}
			os.Remove(layerPath)
		}
	}
	return nil
}
