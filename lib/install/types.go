package install

// Format identifies the on-disk layout of an input image.
type Format string

const (
	// FormatDir is an unpacked image tree: a top-level manifest.json
	// plus blobs.
	FormatDir Format = "dir"
	// FormatOCIArchive is a packed OCI layout archive. Archives embed
	// their own addressing and cannot be merged with a manifest list.
	FormatOCIArchive Format = "oci-archive"
)

// Image is one input image rooted on local disk, immutable for the run.
type Image struct {
	Checksum string // content-addressed key, algorithm:hex
	Path     string // location under the images root
	Format   Format
	Name     string // destination image reference
}

// Plan is the resolved install plan for one image, consumed exactly
// once by the installer.
type Plan struct {
	Source       string
	Format       Format
	Name         string
	ManifestList string // path of the owning list file, empty when unmatched
}
