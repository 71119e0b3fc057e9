package install

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/osimage/containerstore/lib/manifests"
)

// Match resolves each image's owning manifest list and produces the
// install plans, in input order. Only dir-format images are digest
// resolved; archives embed their own addressing and never consult the
// index. Matched list files are claimed from the index; any file left
// unclaimed afterwards fails the run.
func Match(ctx context.Context, images []Image, idx *manifests.Index, resolver manifests.DigestResolver) ([]Plan, error) {
	plans := make([]Plan, 0, len(images))
	for _, img := range images {
		plan := Plan{
			Source: img.Path,
			Format: img.Format,
			Name:   img.Name,
		}

		// Digest resolution costs a tool invocation per image, so it is
		// skipped entirely when no lists were supplied.
		if img.Format == FormatDir && !idx.Empty() {
			d, err := resolver.ManifestDigest(ctx, filepath.Join(img.Path, "manifest.json"))
			if err != nil {
				return nil, fmt.Errorf("resolve digest for %s: %w", img.Name, err)
			}
			if f, ok := idx.Claim(d); ok {
				plan.ManifestList = f.Path
			}
		}

		plans = append(plans, plan)
	}

	if orphans := idx.Unclaimed(); len(orphans) > 0 {
		return nil, &manifests.UnusedListError{Files: orphans}
	}
	return plans, nil
}
