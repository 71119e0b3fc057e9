package install

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osimage/containerstore/lib/manifests"
	"github.com/osimage/containerstore/lib/skopeo"
)

// Options configures one installation run.
type Options struct {
	Document   *Document
	OutputRoot string
	RunRoot    string
	Tool       *skopeo.Tool
	Logger     *slog.Logger
}

// Run installs every image in the document into the output tree:
// load inputs, index the manifest lists, match images to lists, then
// install. The first failure halts the run.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	images, err := opts.Document.ImageInputs()
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	files, err := opts.Document.ListFiles()
	if err != nil {
		return fmt.Errorf("load manifest lists: %w", err)
	}

	idx, err := manifests.BuildIndex(files)
	if err != nil {
		return fmt.Errorf("index manifest lists: %w", err)
	}

	plans, err := Match(ctx, images, idx, opts.Tool)
	if err != nil {
		return err
	}

	ins := NewInstaller(opts.OutputRoot, opts.Document.Destination, opts.RunRoot, opts.Tool, opts.Logger)
	return ins.Install(ctx, plans)
}
