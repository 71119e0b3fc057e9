package manifests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
)

// manifestFile is the conventional top-level manifest name in a
// dir-layout image.
const manifestFile = "manifest.json"

// DigestResolver computes the content digest of a manifest file.
type DigestResolver interface {
	ManifestDigest(ctx context.Context, manifestPath string) (digest.Digest, error)
}

// Merge installs the manifest list at listPath as the top-level manifest
// of the dir-layout image at imageDir. The single-platform manifest
// already there is renamed to <hex>.manifest.json first, so it stays
// retrievable by its content address after being superseded. Clients
// pulled the image by the list digest, not by whichever per-arch
// manifest was staged; after the merge both addresses resolve.
//
// The caller must own imageDir: the rename is destructive.
func Merge(ctx context.Context, listPath, imageDir string, resolver DigestResolver) error {
	manifestPath := filepath.Join(imageDir, manifestFile)

	d, err := resolver.ManifestDigest(ctx, manifestPath)
	if err != nil {
		return fmt.Errorf("digest installed manifest: %w", err)
	}

	preserved := filepath.Join(imageDir, d.Encoded()+".manifest.json")
	if err := os.Rename(manifestPath, preserved); err != nil {
		return fmt.Errorf("preserve per-arch manifest: %w", err)
	}

	if err := copyFile(listPath, manifestPath); err != nil {
		return fmt.Errorf("install manifest list: %w", err)
	}
	return nil
}

// copyFile writes dst atomically via a temp file and rename.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", dst, err)
	}
	return nil
}
