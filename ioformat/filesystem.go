package ioformat

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing/fstest"
	"time"
)

const writePermissions fs.FileMode = 0644

// Wrappers for fs.FS with some write functionality.
// If go adds this feature to fs.Fs, we can remove this code.
// It is also a superset of the fs.StatFs interface.
type Filesystem interface {
	FS() fs.FS
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, content []byte) error
	Stat(name string) (os.FileInfo, error)
}

type mapfs struct {
	fsobj fs.FS
	m     map[string]*fstest.MapFile
}

func (m mapfs) FS() fs.FS {
	return m.fsobj
}

func (m mapfs) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.fsobj, name)
}

func (m mapfs) Stat(name string) (os.FileInfo, error) {
	return fstest.MapFS(m.m).Stat(name)
}

func (m mapfs) WriteFile(name string, content []byte) error {
	m.m[name] = &fstest.MapFile{
		Data:    content,
		Mode:    writePermissions,
		ModTime: time.Now(),
	}
	return nil
}

// Generates a new [ioformat.Filesystem] based on [fstest.MapFS]. It always adds a working directory "."
func NewMapFs(m fstest.MapFS) Filesystem {
	switch m {
	case nil:
		f := fstest.MapFS{".": &fstest.MapFile{Mode: 0777 | fs.ModeDir}}
		return mapfs{m: f, fsobj: fstest.MapFS(f)}
	default:
		return mapfs{m, fstest.MapFS(m)}
	}
}

type nativefs struct {
	basepath string
	fsObj    fs.FS
}

func (n nativefs) FS() fs.FS {
	return n.fsObj
}

// Absolute names are read as they are, relative ones below the base path.
func (n nativefs) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(n.basepath, name)
}

func (n nativefs) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(n.path(name))
}

func (n nativefs) Stat(name string) (os.FileInfo, error) {
	return os.Stat(n.path(name))
}

func (n nativefs) WriteFile(name string, content []byte) error {
	if filepath.IsAbs(name) {
		return fmt.Errorf("ioformat: '%s' is an absolute path, rather than a part relative to the provided basename", name)
	}
	return os.WriteFile(n.path(name), content, writePermissions)
}

// Generates a new [ioformat.Filesystem] based on [os.DirFS], plus some write
// functionality taken from the [os] package.
func NewNativeFs(path string) Filesystem {
	return nativefs{basepath: path, fsObj: os.DirFS(path)}
}
