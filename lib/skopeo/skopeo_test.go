package skopeo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeStub installs a shell script standing in for the skopeo binary.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skopeo")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755)
	require.NoError(t, err)
	return path
}

func TestManifestDigest(t *testing.T) {
	want := "sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	bin := writeStub(t, fmt.Sprintf(`printf '%%s\n' %q`, want))

	tool := NewWithPath(bin, nil)
	d, err := tool.ManifestDigest(context.Background(), "/some/manifest.json")
	require.NoError(t, err)
	require.Equal(t, want, d.String())
	require.Equal(t, "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", d.Encoded())
}

func TestManifestDigestMalformed(t *testing.T) {
	bin := writeStub(t, `printf 'not-a-digest\n'`)

	tool := NewWithPath(bin, nil)
	_, err := tool.ManifestDigest(context.Background(), "/some/manifest.json")
	require.Error(t, err)

	var malformed *MalformedDigestError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "not-a-digest", malformed.Output)
}

func TestManifestDigestToolFailure(t *testing.T) {
	bin := writeStub(t, `echo "no such file" >&2; exit 3`)

	tool := NewWithPath(bin, nil)
	_, err := tool.ManifestDigest(context.Background(), "/some/manifest.json")
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, 3, toolErr.ExitCode)
	require.Contains(t, toolErr.Output, "no such file")
	require.Equal(t, []string{"manifest-digest", "/some/manifest.json"}, toolErr.Args)
}

func TestCopyArguments(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	bin := writeStub(t, fmt.Sprintf(`printf '%%s\n' "$@" > %q`, argsFile))

	tool := NewWithPath(bin, nil)
	err := tool.Copy(context.Background(), "dir:/staging/image", "containers-storage:[overlay@/out+/run]quay.io/app:1")
	require.NoError(t, err)

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, []string{
		"copy",
		"--preserve-digests",
		"dir:/staging/image",
		"containers-storage:[overlay@/out+/run]quay.io/app:1",
	}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestCopyFailurePropagated(t *testing.T) {
	bin := writeStub(t, `echo "destination locked" >&2; exit 125`)

	tool := NewWithPath(bin, nil)
	err := tool.Copy(context.Background(), "dir:/a", "containers-storage:[overlay@/b+/c]d")
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	require.Equal(t, 125, toolErr.ExitCode)
	require.Contains(t, toolErr.Output, "destination locked")
}
