package manifests

import (
	"encoding/json"
	"fmt"
	"os"

	ggcrtypes "github.com/google/go-containerregistry/pkg/v1/types"
	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// ListFile is one caller-supplied manifest-list document on disk.
type ListFile struct {
	Name string // file name as supplied by the caller
	Path string // resolved location on disk
}

// digests parses the document and returns the per-image manifest digests
// it references. Both OCI image indexes and Docker manifest lists carry a
// "manifests" array of descriptors, so a single parse covers both.
// A list with zero entries is legal and returns an empty slice.
func (f ListFile) digests() ([]digest.Digest, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read manifest list %s: %w", f.Name, err)
	}

	var index v1.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse manifest list %s: %w", f.Name, err)
	}

	if index.MediaType != "" && !ggcrtypes.MediaType(index.MediaType).IsIndex() {
		return nil, fmt.Errorf("manifest list %s: media type %q is not a manifest list", f.Name, index.MediaType)
	}

	ds := make([]digest.Digest, 0, len(index.Manifests))
	for _, m := range index.Manifests {
		if err := m.Digest.Validate(); err != nil {
			return nil, fmt.Errorf("manifest list %s: entry digest %q: %w", f.Name, m.Digest, err)
		}
		ds = append(ds, m.Digest)
	}
	return ds, nil
}
