package install

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/distribution/reference"
	"github.com/ghodss/yaml"
	"github.com/opencontainers/go-digest"
	"github.com/samber/lo"

	"github.com/osimage/containerstore/lib/manifests"
)

const (
	// DestinationType is the only supported destination backend.
	DestinationType = "containers-storage"

	defaultStoragePath   = "/var/lib/containers/storage"
	defaultStorageDriver = "overlay"
)

// Document is the install manifest supplied by the caller, in YAML or
// JSON. Images are keyed by their content checksum; the on-disk file or
// directory name is the hex portion of that checksum, rooted at
// ImagesRoot.
type Document struct {
	ImagesRoot    string                `json:"images-root"`
	Images        map[string]ImageEntry `json:"images"`
	ManifestLists *ManifestLists        `json:"manifest-lists,omitempty"`
	Destination   Destination           `json:"destination"`
}

// ImageEntry declares one input image.
type ImageEntry struct {
	Format string `json:"format"`
	Name   string `json:"name"`
}

// ManifestLists declares the optional manifest-list files.
type ManifestLists struct {
	Root  string   `json:"root"`
	Files []string `json:"files"`
}

// Destination selects and configures the storage backend.
type Destination struct {
	Type          string `json:"type"`
	StoragePath   string `json:"storage-path,omitempty"`
	StorageDriver string `json:"storage-driver,omitempty"`
}

// LoadDocument reads and validates an install manifest. Defaults for
// the storage path and driver are filled in here so the rest of the run
// never sees empty values.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read install manifest: %w", err)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse install manifest: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parse install manifest: %w", err)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Destination.Type != DestinationType {
		return fmt.Errorf("%w: %q", ErrUnsupportedDestination, d.Destination.Type)
	}
	if d.Destination.StoragePath == "" {
		d.Destination.StoragePath = defaultStoragePath
	}
	if d.Destination.StorageDriver == "" {
		d.Destination.StorageDriver = defaultStorageDriver
	}
	if len(d.Images) == 0 {
		return ErrNoImages
	}
	return nil
}

// ImageInputs resolves the declared images to on-disk inputs, ordered
// by checksum so a run is deterministic regardless of map iteration.
func (d *Document) ImageInputs() ([]Image, error) {
	checksums := lo.Keys(d.Images)
	sort.Strings(checksums)

	images := make([]Image, 0, len(checksums))
	for _, sum := range checksums {
		entry := d.Images[sum]

		dg, err := digest.Parse(sum)
		if err != nil {
			return nil, fmt.Errorf("image checksum %q: %w", sum, err)
		}
		if _, err := reference.ParseNormalizedNamed(entry.Name); err != nil {
			return nil, fmt.Errorf("image name %q: %w", entry.Name, err)
		}

		path, err := securejoin.SecureJoin(d.ImagesRoot, dg.Encoded())
		if err != nil {
			return nil, fmt.Errorf("resolve image path for %s: %w", sum, err)
		}

		images = append(images, Image{
			Checksum: sum,
			Path:     path,
			Format:   Format(entry.Format),
			Name:     entry.Name,
		})
	}
	return images, nil
}

// ListFiles resolves the declared manifest-list files under their root.
func (d *Document) ListFiles() ([]manifests.ListFile, error) {
	if d.ManifestLists == nil {
		return nil, nil
	}

	files := make([]manifests.ListFile, 0, len(d.ManifestLists.Files))
	for _, name := range d.ManifestLists.Files {
		path, err := securejoin.SecureJoin(d.ManifestLists.Root, name)
		if err != nil {
			return nil, fmt.Errorf("resolve manifest list path for %s: %w", name, err)
		}
		files = append(files, manifests.ListFile{Name: name, Path: path})
	}
	return files, nil
}
