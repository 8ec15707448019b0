package internal

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// FS is the file system surface used by the track hub builder.
type FS interface {
	MkdirAll(path string) error
	WriteFile(filename string, data []byte) error
	ReadFile(filename string) ([]byte, error)
	Rename(oldpath, newpath string) error
}

// OSFS implements FS on top of package os.
type OSFS struct{}

func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0700)
}

func (OSFS) WriteFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0666)
}

func (OSFS) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (OSFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

/*
WriteFileAtomic writes data to a staging file next to filename and
then renames it into place, so that readers either see the previous
content of filename or the complete new content.
*/
func WriteFileAtomic(fsys FS, filename string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(filename)); err != nil {
		return err
	}
	staging := filepath.Join(filepath.Dir(filename), "."+filepath.Base(filename)+"-"+uuid.NewString())
	if err := fsys.WriteFile(staging, data); err != nil {
		return err
	}
	return fsys.Rename(staging, filename)
}

// MemFS is an in-memory FS. It is safe for concurrent use.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte), dirs: make(map[string]bool)}
}

func (m *MemFS) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p := filepath.Clean(path); !m.dirs[p]; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

func (m *MemFS) WriteFile(filename string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	filename = filepath.Clean(filename)
	if !m.dirs[filepath.Dir(filename)] {
		return &fs.PathError{Op: "open", Path: filename, Err: fs.ErrNotExist}
	}
	m.files[filename] = append([]byte(nil), data...)
	return nil
}

func (m *MemFS) ReadFile(filename string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(filename)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	data, ok := m.files[oldpath]
	if !ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrNotExist}
	}
	delete(m.files, oldpath)
	m.files[newpath] = data
	return nil
}

// Remove deletes a file, to simulate a file lost between phases.
func (m *MemFS) Remove(filename string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, filepath.Clean(filename))
}

// Names returns the sorted names of all files.
func (m *MemFS) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/*
Files returns the slash-separated paths of all regular files below
root, relative to root, in lexical order.
*/
func Files(root string) (files []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

func FullPathname(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}
