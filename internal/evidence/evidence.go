// Package evidence defines the narrow interfaces through which the scanner
// reads a forensic image. Concrete providers (directory-backed, TSK-style
// image parsers) live behind these interfaces so the scan core never touches
// image formats directly.
package evidence

import (
	"errors"
	"time"
)

// ErrImageOpen is wrapped by providers when the image itself cannot be
// opened. It is the only failure that prevents a scan from producing
// results.
var ErrImageOpen = errors.New("cannot open evidence image")

// Image is an opened forensic image.
type Image interface {
	// Volumes enumerates the image's partitions in layout order. An image
	// with no partition table yields a single implicit volume at offset 0
	// covering the whole image.
	Volumes() ([]Volume, error)
	Close() error
}

// Volume is one logical partition within an image.
type Volume interface {
	// Offset is the partition start in bytes from the beginning of the image.
	Offset() int64
	// OpenFilesystem parses the volume's filesystem. Failure is
	// volume-fatal only: callers skip the volume and continue.
	OpenFilesystem() (Filesystem, error)
}

// Filesystem is a navigable view of one volume's contents. Paths are
// absolute, forward-slash separated, rooted at "/".
type Filesystem interface {
	ListDirectory(path string) ([]DirEntry, error)
	OpenFile(path string) (FileHandle, error)
}

// DirEntry is a single directory listing entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileHandle is an opened file within a filesystem.
type FileHandle interface {
	// ReadAll returns the complete file content. Zero-length files return
	// an empty, non-nil slice.
	ReadAll() ([]byte, error)
	Metadata() (Metadata, error)
	Close() error
}

// Metadata holds the file attributes recorded in a Finding. Timestamps are
// nil when the source filesystem does not record them.
type Metadata struct {
	Size     int64
	Created  *time.Time
	Modified *time.Time
	Accessed *time.Time
}
