package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"
	"github.com/u-root/u-root/pkg/cp"

	"github.com/osimage/containerstore/lib/manifests"
	"github.com/osimage/containerstore/lib/skopeo"
)

// DefaultRunRoot is the runtime state path encoded into the destination
// reference. It never exists inside the output tree; skopeo only needs
// a syntactically valid run root.
const DefaultRunRoot = "/run/containers/storage"

// backingFsBlockDev is a device node the overlay driver creates while
// probing the backing filesystem. It is meaningless outside a live
// mount and must not be captured into a static output tree.
const backingFsBlockDev = "backingFsBlockDev"

// Installer places resolved images into a containers-storage tree
// rooted inside the output directory. Images are installed one at a
// time, in plan order; the first failure aborts the run, leaving the
// tree partially populated (best effort, not transactional across
// images).
type Installer struct {
	outputRoot  string
	storagePath string
	driver      string
	runRoot     string
	tool        *skopeo.Tool
	logger      *slog.Logger
}

// NewInstaller creates an installer for the given output tree and
// destination settings.
func NewInstaller(outputRoot string, dest Destination, runRoot string, tool *skopeo.Tool, logger *slog.Logger) *Installer {
	if runRoot == "" {
		runRoot = DefaultRunRoot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Installer{
		outputRoot:  outputRoot,
		storagePath: dest.StoragePath,
		driver:      dest.StorageDriver,
		runRoot:     runRoot,
		tool:        tool,
		logger:      logger,
	}
}

// Install installs every plan, then removes driver artifacts that must
// not survive into a static tree.
func (ins *Installer) Install(ctx context.Context, plans []Plan) error {
	for _, plan := range plans {
		if err := ins.installOne(ctx, plan); err != nil {
			return fmt.Errorf("install %s: %w", plan.Name, err)
		}
	}

	if ins.driver == "overlay" {
		dev := filepath.Join(ins.storeRoot(), "overlay", backingFsBlockDev)
		if err := os.Remove(dev); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", backingFsBlockDev, err)
		}
	}
	return nil
}

func (ins *Installer) installOne(ctx context.Context, plan Plan) error {
	switch plan.Format {
	case FormatDir, FormatOCIArchive:
	default:
		return &UnsupportedFormatError{Format: string(plan.Format)}
	}

	tmp, err := os.MkdirTemp("", "containerstore-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	staged := filepath.Join(tmp, "image")
	if plan.ManifestList != "" {
		// The merge renames the image's manifest, so it must run
		// against a private copy, never the caller's input.
		if err := (cp.Options{NoFollowSymlinks: true}).CopyTree(plan.Source, staged); err != nil {
			return fmt.Errorf("stage image tree: %w", err)
		}
		if err := manifests.Merge(ctx, plan.ManifestList, staged, ins.tool); err != nil {
			return err
		}
	} else {
		// Unmerged sources are never mutated; an alias avoids copying
		// large trees for nothing.
		src, err := filepath.Abs(plan.Source)
		if err != nil {
			return fmt.Errorf("resolve source path: %w", err)
		}
		if err := os.Symlink(src, staged); err != nil {
			return fmt.Errorf("stage image link: %w", err)
		}
	}

	size, err := treeSize(plan.Source)
	if err != nil {
		return fmt.Errorf("measure image: %w", err)
	}
	ins.logger.InfoContext(ctx, "installing image",
		"name", plan.Name,
		"format", plan.Format,
		"merged", plan.ManifestList != "",
		"size", datasize.ByteSize(size).HumanReadable(),
	)

	srcRef := string(plan.Format) + ":" + staged
	return ins.tool.Copy(ctx, srcRef, ins.destinationRef(plan.Name))
}

func (ins *Installer) storeRoot() string {
	return filepath.Join(ins.outputRoot, ins.storagePath)
}

// destinationRef encodes the storage driver, graph root inside the
// output tree, run root, and image name the way the containers-storage
// transport expects them.
func (ins *Installer) destinationRef(name string) string {
	return fmt.Sprintf("containers-storage:[%s@%s+%s]%s", ins.driver, ins.storeRoot(), ins.runRoot, name)
}

// treeSize totals the regular files under path; path may also be a
// single archive file.
func treeSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
