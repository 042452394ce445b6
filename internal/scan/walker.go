package scan

import (
	"log/slog"
	"path"
	"strings"

	"github.com/hashhound/hashhound/internal/evidence"
)

// ErrorReporter records a recoverable per-object error: the scan logs it,
// counts it, and moves on.
type ErrorReporter func(path, stage, errMsg string)

// DefaultMetadataPrefix marks filesystem-reserved entries ($MFT, $Bitmap and
// friends on NTFS) that carry no user content and are skipped.
const DefaultMetadataPrefix = "$"

// DefaultMaxDepth bounds traversal depth. Corrupt or adversarial images can
// present directory structures that alias the same directory under ever
// longer paths; the bound stops the descent instead of looping.
const DefaultMaxDepth = 255

// pendingEntry is one yet-to-be-visited filesystem object.
type pendingEntry struct {
	path  string
	isDir bool
	depth int
}

// Walker lazily enumerates the absolute paths of all regular files under a
// filesystem root in depth-first pre-order. It holds an explicit stack of
// pending entries so arbitrarily large trees never recurse and only one
// directory listing is resident at a time.
//
// A directory that cannot be listed is reported and skipped; traversal
// continues with its siblings. Not safe for concurrent use.
type Walker struct {
	fs         evidence.Filesystem
	stack      []pendingEntry
	skipPrefix string
	maxDepth   int
	report     ErrorReporter
}

// WalkerOptions tunes traversal. Zero values select defaults.
type WalkerOptions struct {
	// MetadataPrefix skips entries whose name begins with it.
	MetadataPrefix string
	MaxDepth       int
	Report         ErrorReporter
}

// NewWalker prepares a traversal of fs starting at root ("" means "/").
func NewWalker(fs evidence.Filesystem, root string, opts WalkerOptions) *Walker {
	if root == "" {
		root = "/"
	}
	if opts.MetadataPrefix == "" {
		opts.MetadataPrefix = DefaultMetadataPrefix
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Report == nil {
		opts.Report = func(path, stage, errMsg string) {
			slog.Warn("walk error", "path", path, "stage", stage, "error", errMsg)
		}
	}
	return &Walker{
		fs:         fs,
		stack:      []pendingEntry{{path: path.Clean(root), isDir: true, depth: 0}},
		skipPrefix: opts.MetadataPrefix,
		maxDepth:   opts.MaxDepth,
		report:     opts.Report,
	}
}

// Next returns the next file path in depth-first pre-order, or false when
// the traversal is exhausted.
func (w *Walker) Next() (string, bool) {
	for len(w.stack) > 0 {
		top := len(w.stack) - 1
		entry := w.stack[top]
		w.stack[top] = pendingEntry{} // release path string
		w.stack = w.stack[:top]

		if !entry.isDir {
			return entry.path, true
		}

		if entry.depth >= w.maxDepth {
			w.report(entry.path, "walk", "max depth exceeded, not descending")
			continue
		}

		entries, err := w.fs.ListDirectory(entry.path)
		if err != nil {
			w.report(entry.path, "walk", err.Error())
			continue
		}

		// Push in reverse so the stack pops entries in listing order.
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			if e.Name == "." || e.Name == ".." {
				continue
			}
			if strings.HasPrefix(e.Name, w.skipPrefix) {
				continue
			}
			w.stack = append(w.stack, pendingEntry{
				path:  path.Join(entry.path, e.Name),
				isDir: e.IsDir,
				depth: entry.depth + 1,
			})
		}
	}
	return "", false
}
