package manifests

import (
	"sort"

	"github.com/opencontainers/go-digest"
	"github.com/samber/lo"
)

// Index maps every per-image manifest digest to the list file that
// contains it, and tracks which list files have not yet been claimed
// by an image. A list file that is never claimed signals a mismatch
// between the supplied images and their declared lists.
type Index struct {
	byDigest  map[digest.Digest]ListFile
	remaining map[string]ListFile
}

// BuildIndex parses every list file and builds the digest mapping.
// A digest referenced by two different files is a hard error; silently
// letting the later file win would make the image/list association
// depend on input ordering.
func BuildIndex(files []ListFile) (*Index, error) {
	idx := &Index{
		byDigest:  make(map[digest.Digest]ListFile),
		remaining: make(map[string]ListFile, len(files)),
	}

	for _, f := range files {
		ds, err := f.digests()
		if err != nil {
			return nil, err
		}
		idx.remaining[f.Name] = f
		for _, d := range ds {
			if prev, ok := idx.byDigest[d]; ok && prev.Name != f.Name {
				return nil, &DuplicateDigestError{Digest: d, Files: []string{prev.Name, f.Name}}
			}
			idx.byDigest[d] = f
		}
	}
	return idx, nil
}

// Claim looks up the list file owning digest d and marks it as used.
// The second return is false when no list references d.
func (x *Index) Claim(d digest.Digest) (ListFile, bool) {
	f, ok := x.byDigest[d]
	if !ok {
		return ListFile{}, false
	}
	delete(x.remaining, f.Name)
	return f, true
}

// Unclaimed returns the names of list files no image has claimed, sorted.
func (x *Index) Unclaimed() []string {
	names := lo.Keys(x.remaining)
	sort.Strings(names)
	return names
}

// Empty reports whether the index was built from no list files at all.
func (x *Index) Empty() bool {
	return len(x.byDigest) == 0 && len(x.remaining) == 0
}
