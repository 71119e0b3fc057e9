package manifests

import (
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

// UnusedListError is returned when manifest-list files were supplied but
// matched no input image. This is a caller contract violation, not a
// best-effort skip: an unclaimed list means an image was installed
// without its multi-arch addressing.
type UnusedListError struct {
	Files []string
}

func (e *UnusedListError) Error() string {
	return fmt.Sprintf("manifest lists matched no image: %s", strings.Join(e.Files, ", "))
}

// DuplicateDigestError is returned when two list files both reference
// the same per-image manifest digest.
type DuplicateDigestError struct {
	Digest digest.Digest
	Files  []string
}

func (e *DuplicateDigestError) Error() string {
	return fmt.Sprintf("digest %s referenced by multiple manifest lists: %s", e.Digest, strings.Join(e.Files, ", "))
}
