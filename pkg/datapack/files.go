package datapack

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	LoadTagPath  = "data/minecraft/tags/functions/load.json"
	TickTagPath  = "data/minecraft/tags/functions/tick.json"
	PackMetaPath = "pack.mcmeta"

	DefaultPackFormat  = 10
	DefaultDescription = "Generated by dpc"
)

var (
	ErrInvalidNamespace = errors.New("invalid namespace")

	namespacePattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)
)

// File is one archive entry: a relative path and its exact content.
type File struct {
	Path    string
	Content []byte
}

// PackMeta holds the fields of pack.mcmeta.
type PackMeta struct {
	Format      int
	Description string
}

func DefaultPackMeta() PackMeta {
	return PackMeta{Format: DefaultPackFormat, Description: DefaultDescription}
}

type tagDocument struct {
	Values []string `json:"values"`
}

type packMetaDocument struct {
	Pack struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	} `json:"pack"`
}

// ValidNamespace reports whether ns can name a data pack namespace.
func ValidNamespace(ns string) bool {
	return namespacePattern.MatchString(ns)
}

// Files serializes the whole store into archive entries: one per artifact,
// the load tag (and tick tag when used), and pack.mcmeta. Nothing is
// written; a returned error means no entry should be persisted.
func Files(store *Store, namespace string, meta PackMeta) ([]File, error) {
	if !ValidNamespace(namespace) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}

	files := make([]File, 0, store.Len()+3)
	for _, artifact := range store.Artifacts() {
		var content []byte
		switch a := artifact.(type) {
		case *Function:
			content = []byte(a.Serialize())
		case *Advancement:
			doc, err := a.Serialize(namespace)
			if err != nil {
				return nil, fmt.Errorf("serializing advancement %q: %w", a.Name, err)
			}
			content = doc
		default:
			return nil, fmt.Errorf("unknown artifact type %T", artifact)
		}
		files = append(files, File{Path: artifact.Path(namespace), Content: content})
	}

	loadTag, err := tagFile(namespace, store.Functions(TagLoad))
	if err != nil {
		return nil, err
	}
	files = append(files, File{Path: LoadTagPath, Content: loadTag})

	if ticking := store.Functions(TagTick); len(ticking) > 0 {
		tickTag, err := tagFile(namespace, ticking)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: TickTagPath, Content: tickTag})
	}

	var mcmeta packMetaDocument
	mcmeta.Pack.PackFormat = meta.Format
	mcmeta.Pack.Description = meta.Description
	metaContent, err := marshalIndent(mcmeta)
	if err != nil {
		return nil, fmt.Errorf("serializing pack metadata: %w", err)
	}
	files = append(files, File{Path: PackMetaPath, Content: metaContent})

	return files, nil
}

func tagFile(namespace string, functions []*Function) ([]byte, error) {
	doc := tagDocument{Values: make([]string, 0, len(functions))}
	for _, f := range functions {
		doc.Values = append(doc.Values, namespace+":"+f.Name)
	}
	content, err := marshalIndent(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing function tag: %w", err)
	}
	return content, nil
}
