package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osimage/containerstore/cmd/containerstore/config"
	"github.com/osimage/containerstore/lib/install"
	"github.com/osimage/containerstore/lib/skopeo"
)

func main() {
	if err := run(); err != nil {
		slog.Error("install failed", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode propagates the failing tool's exit status where one exists.
func exitCode(err error) int {
	var toolErr *skopeo.ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 {
		return toolErr.ExitCode
	}
	return 1
}

func run() error {
	manifestPath := flag.String("manifest", "", "path to the install manifest (YAML or JSON)")
	outputRoot := flag.String("output", "", "root of the output tree")
	flag.Parse()

	if *manifestPath == "" || *outputRoot == "" {
		flag.Usage()
		return errors.New("-manifest and -output are required")
	}

	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := install.LoadDocument(*manifestPath)
	if err != nil {
		return err
	}

	return install.Run(ctx, install.Options{
		Document:   doc,
		OutputRoot: *outputRoot,
		RunRoot:    cfg.RunRoot,
		Tool:       skopeo.NewWithPath(cfg.SkopeoPath, logger),
		Logger:     logger,
	})
}
