package install

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDestination is returned for destination types other
	// than containers-storage.
	ErrUnsupportedDestination = errors.New("unsupported destination type")

	// ErrNoImages is returned when the document declares no images.
	ErrNoImages = errors.New("no images to install")
)

// UnsupportedFormatError is returned for an image format that is not
// one of the recognized layouts. It is raised before any filesystem
// mutation for that image.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported image format %q", e.Format)
}
