package evidence

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// dirImage exposes an already-mounted evidence directory as an Image with a
// single implicit volume at offset 0. This is the provider used when the
// investigator points the tool at an extracted or mounted image; parsers for
// raw image formats implement the same interfaces.
type dirImage struct {
	root string
}

// OpenDirectory opens a mounted evidence tree as an Image. The path must be
// an existing directory.
func OpenDirectory(root string) (Image, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrImageOpen, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageOpen, root, err)
	}
	return &dirImage{root: abs}, nil
}

func (img *dirImage) Volumes() ([]Volume, error) {
	return []Volume{&dirVolume{root: img.root}}, nil
}

func (img *dirImage) Close() error { return nil }

type dirVolume struct {
	root string
}

func (v *dirVolume) Offset() int64 { return 0 }

func (v *dirVolume) OpenFilesystem() (Filesystem, error) {
	return &dirFilesystem{root: v.root}, nil
}

// dirFilesystem maps virtual absolute paths ("/docs/report.txt") onto the
// host filesystem under root.
type dirFilesystem struct {
	root string
}

// hostPath converts a virtual path to a host path. The virtual path is
// cleaned first so ".." segments cannot escape the evidence root.
func (fs *dirFilesystem) hostPath(virtual string) string {
	clean := path.Clean("/" + virtual)
	return filepath.Join(fs.root, filepath.FromSlash(clean))
}

func (fs *dirFilesystem) ListDirectory(dir string) ([]DirEntry, error) {
	entries, err := os.ReadDir(fs.hostPath(dir))
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		// Symlinks are neither descended nor hashed: following them could
		// leave the evidence tree or alias content already scanned.
		if e.Type()&os.ModeSymlink != 0 {
			continue
		}
		if !e.IsDir() && !e.Type().IsRegular() {
			continue
		}
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	// os.ReadDir sorts by name already; keep the guarantee explicit so
	// traversal order is stable across providers.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (fs *dirFilesystem) OpenFile(p string) (FileHandle, error) {
	f, err := os.Open(fs.hostPath(p))
	if err != nil {
		return nil, err
	}
	return &dirFile{f: f}, nil
}

type dirFile struct {
	f *os.File
}

func (d *dirFile) ReadAll() ([]byte, error) {
	info, err := d.f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	n, err := d.f.ReadAt(buf, 0)
	if err != nil && n < len(buf) {
		return nil, err
	}
	return buf[:n], nil
}

func (d *dirFile) Metadata() (Metadata, error) {
	info, err := d.f.Stat()
	if err != nil {
		return Metadata{}, err
	}
	mtime := info.ModTime()
	md := Metadata{Size: info.Size(), Modified: &mtime}
	fillTimes(&md, info)
	return md, nil
}

func (d *dirFile) Close() error { return d.f.Close() }
