package skopeo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Tool wraps the external skopeo binary. skopeo owns all byte movement
// between image locations and all locking on the destination storage;
// this wrapper only shells out and interprets results.
type Tool struct {
	bin    string
	logger *slog.Logger
}

// New creates a Tool that runs "skopeo" from PATH.
func New(logger *slog.Logger) *Tool {
	return NewWithPath("skopeo", logger)
}

// NewWithPath creates a Tool that runs the given binary.
func NewWithPath(bin string, logger *slog.Logger) *Tool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tool{
		bin:    bin,
		logger: logger,
	}
}

// ManifestDigest computes the content digest of the manifest file at
// manifestPath. The computation is delegated to skopeo so the digest is
// identical to the one skopeo uses when copying.
func (t *Tool) ManifestDigest(ctx context.Context, manifestPath string) (digest.Digest, error) {
	out, err := t.run(ctx, "manifest-digest", manifestPath)
	if err != nil {
		return "", err
	}

	raw := strings.TrimSpace(out)
	d, err := digest.Parse(raw)
	if err != nil {
		return "", &MalformedDigestError{Output: raw, Err: err}
	}
	return d, nil
}

// Copy moves an image from srcRef to destRef. Digests are preserved so
// the installed image stays addressable by the digest it was supplied
// under. Failure is propagated verbatim; skopeo is transactional per
// image, so there is nothing to retry.
func (t *Tool) Copy(ctx context.Context, srcRef, destRef string) error {
	_, err := t.run(ctx, "copy", "--preserve-digests", srcRef, destRef)
	return err
}

func (t *Tool) run(ctx context.Context, args ...string) (string, error) {
	t.logger.DebugContext(ctx, "running skopeo", "args", args)

	cmd := exec.CommandContext(ctx, t.bin, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ToolError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Output:   string(exitErr.Stderr),
			}
		}
		return "", fmt.Errorf("run %s: %w", t.bin, err)
	}
	return string(out), nil
}
