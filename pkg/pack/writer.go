// Package pack persists serialized data pack files as a zip archive or a
// directory tree, and builds signed manifests of their contents.
package pack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

var ErrUnsafePath = errors.New("unsafe archive path")

// Writer receives archive entries. Close finalizes the output.
type Writer interface {
	WriteFile(path string, content []byte) error
	Close() error
}

// aborter is implemented by writers that can discard partial output.
type aborter interface {
	Abort() error
}

// Write stores every file through w and closes it. On failure, writers that
// support it discard what was written so far.
func Write(w Writer, files []datapack.File) error {
	for _, f := range files {
		if err := w.WriteFile(f.Path, f.Content); err != nil {
			if a, ok := w.(aborter); ok {
				return errors.Join(err, a.Abort())
			}
			return errors.Join(err, w.Close())
		}
	}
	return w.Close()
}

func checkPath(p string) error {
	if p == "" || path.IsAbs(p) || !filepath.IsLocal(filepath.FromSlash(p)) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	return nil
}

// ZipWriter writes entries into a zip archive. Entries carry no timestamps,
// so equal inputs give byte-identical archives.
type ZipWriter struct {
	zw *zip.Writer
}

func NewZipWriter(w io.Writer) *ZipWriter {
	return &ZipWriter{zw: zip.NewWriter(w)}
}

func (z *ZipWriter) WriteFile(p string, content []byte) error {
	if err := checkPath(p); err != nil {
		return err
	}
	entry, err := z.zw.CreateHeader(&zip.FileHeader{Name: p, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("creating zip entry %s: %w", p, err)
	}
	if _, err := entry.Write(content); err != nil {
		return fmt.Errorf("writing zip entry %s: %w", p, err)
	}
	return nil
}

func (z *ZipWriter) Close() error {
	return z.zw.Close()
}

// ZipFile is a ZipWriter backed by a temporary file that replaces the
// target path only when closed successfully.
type ZipFile struct {
	*ZipWriter
	tmp    *os.File
	target string
}

func CreateZipFile(target string) (*ZipFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".dpc-*.zip")
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	return &ZipFile{ZipWriter: NewZipWriter(tmp), tmp: tmp, target: target}, nil
}

func (z *ZipFile) Close() error {
	if err := z.ZipWriter.Close(); err != nil {
		return errors.Join(err, z.Abort())
	}
	if err := z.tmp.Close(); err != nil {
		return errors.Join(err, os.Remove(z.tmp.Name()))
	}
	if err := os.Rename(z.tmp.Name(), z.target); err != nil {
		return errors.Join(fmt.Errorf("finalizing archive: %w", err), os.Remove(z.tmp.Name()))
	}
	return nil
}

// Abort discards the temporary archive.
func (z *ZipFile) Abort() error {
	return errors.Join(z.tmp.Close(), os.Remove(z.tmp.Name()))
}

// DirWriter writes entries as plain files below root.
type DirWriter struct {
	root string
}

func NewDirWriter(root string) *DirWriter {
	return &DirWriter{root: root}
}

func (d *DirWriter) WriteFile(p string, content []byte) error {
	if err := checkPath(p); err != nil {
		return err
	}
	dst := filepath.Join(d.root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0o644)
}

func (d *DirWriter) Close() error { return nil }
