package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
)

// ReadZip loads every regular entry of the archive at path, sorted by path.
func ReadZip(path string) ([]datapack.File, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	files := make([]datapack.File, 0, len(zr.File))
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		content, err := readEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		files = append(files, datapack.File{Path: entry.Name, Content: content})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func readEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SplitManifest separates the manifest entry from the other files.
func SplitManifest(files []datapack.File) (*Manifest, []datapack.File, error) {
	rest := make([]datapack.File, 0, len(files))
	var manifest *Manifest
	for _, f := range files {
		if f.Path != ManifestPath {
			rest = append(rest, f)
			continue
		}
		m, err := ReadManifest(f.Content)
		if err != nil {
			return nil, nil, err
		}
		manifest = m
	}
	if manifest == nil {
		return nil, nil, fmt.Errorf("%s not found", ManifestPath)
	}
	return manifest, rest, nil
}
