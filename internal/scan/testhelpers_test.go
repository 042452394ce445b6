package scan

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/hashhound/hashhound/internal/evidence"
)

// fakeImage is an in-memory evidence.Image for orchestrator tests.
type fakeImage struct {
	volumes []evidence.Volume
	volErr  error
}

func (f *fakeImage) Volumes() ([]evidence.Volume, error) { return f.volumes, f.volErr }
func (f *fakeImage) Close() error                        { return nil }

// fakeVolume wraps a fakeFS at a given partition offset. openErr simulates a
// volume whose filesystem cannot be parsed.
type fakeVolume struct {
	offset  int64
	fs      *fakeFS
	openErr error
}

func (v *fakeVolume) Offset() int64 { return v.offset }

func (v *fakeVolume) OpenFilesystem() (evidence.Filesystem, error) {
	if v.openErr != nil {
		return nil, v.openErr
	}
	return v.fs, nil
}

// fakeFS is an in-memory filesystem keyed by absolute virtual paths.
// Directories are derived from the file paths; failDirs and failFiles
// simulate unreadable subtrees and corrupt files.
type fakeFS struct {
	files     map[string][]byte
	failDirs  map[string]bool
	failFiles map[string]bool
	mtime     time.Time
}

func newFakeFS(files map[string][]byte) *fakeFS {
	return &fakeFS{
		files:     files,
		failDirs:  map[string]bool{},
		failFiles: map[string]bool{},
		mtime:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeFS) ListDirectory(dir string) ([]evidence.DirEntry, error) {
	if f.failDirs[dir] {
		return nil, errors.New("I/O error")
	}
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	names := map[string]bool{} // name → isDir
	for p := range f.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			names[rest[:i]] = true
		} else {
			names[rest] = false
		}
	}

	var out []evidence.DirEntry
	for name, isDir := range names {
		out = append(out, evidence.DirEntry{Name: name, IsDir: isDir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeFS) OpenFile(p string) (evidence.FileHandle, error) {
	if f.failFiles[p] {
		return nil, errors.New("permission denied")
	}
	content, ok := f.files[p]
	if !ok {
		return nil, errors.New("no such file")
	}
	return &fakeFile{content: content, mtime: f.mtime}, nil
}

type fakeFile struct {
	content []byte
	mtime   time.Time
	readErr error
}

func (f *fakeFile) ReadAll() ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.content, nil
}

func (f *fakeFile) Metadata() (evidence.Metadata, error) {
	mtime := f.mtime
	return evidence.Metadata{Size: int64(len(f.content)), Modified: &mtime}, nil
}

func (f *fakeFile) Close() error { return nil }

// singleVolumeImage builds an image with one implicit volume at offset 0.
func singleVolumeImage(files map[string][]byte) (*fakeImage, *fakeFS) {
	fs := newFakeFS(files)
	return &fakeImage{volumes: []evidence.Volume{&fakeVolume{offset: 0, fs: fs}}}, fs
}
