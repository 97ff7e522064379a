package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/config"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/eval"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/importer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/pack"
)

var errMissingNamespace = errors.New("program has no datapack header")

// compilation is everything a build produces before anything is written.
type compilation struct {
	Namespace string
	Store     *datapack.Store
	Files     []datapack.File
	Manifest  *pack.Manifest
}

// compile runs the whole pipeline for the file at source: import
// resolution, evaluation and serialization. out receives print output.
func compile(source string, cfg *config.Config, handler slog.Handler, out io.Writer) (*compilation, error) {
	resolver, err := importer.New(importer.WithLogHandler(handler))
	if err != nil {
		return nil, err
	}
	prog, err := resolver.ResolveFile(source)
	if err != nil {
		return nil, err
	}
	if prog.Name == "" {
		return nil, fmt.Errorf("%s: %w", source, errMissingNamespace)
	}

	store := datapack.NewStore()
	ev, err := eval.New(store, prog.Name, eval.WithLogHandler(handler), eval.WithOutput(out))
	if err != nil {
		return nil, err
	}
	if _, err := ev.EvalProgram(prog, eval.NewEnvironment()); err != nil {
		return nil, err
	}

	files, err := datapack.Files(store, prog.Name, cfg.PackMeta())
	if err != nil {
		return nil, err
	}

	result := &compilation{Namespace: prog.Name, Store: store, Files: files}
	if cfg.Manifest || cfg.SignManifest() {
		result.Manifest = pack.NewManifest(prog.Name, files)
		if cfg.SignManifest() {
			if _, err := result.Manifest.Sign([]byte(cfg.SigningKey), 0); err != nil {
				return nil, err
			}
		}
		mf, err := result.Manifest.File()
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, mf)
	}
	return result, nil
}

// writePack persists files at path in the given format.
func writePack(path, format string, files []datapack.File) error {
	var w pack.Writer
	switch format {
	case config.FormatDir:
		w = pack.NewDirWriter(path)
	default:
		zf, err := pack.CreateZipFile(path)
		if err != nil {
			return err
		}
		w = zf
	}
	return pack.Write(w, files)
}

func printArtifacts(out io.Writer, result *compilation) {
	fmt.Fprintf(out, "Namespace %s: %d artifacts\n", result.Namespace, result.Store.Len())
	for _, artifact := range result.Store.Artifacts() {
		switch a := artifact.(type) {
		case *datapack.Function:
			tag := ""
			if a.Tag != datapack.TagNone {
				tag = " #" + string(a.Tag)
			}
			fmt.Fprintf(out, "  · function %s (%d commands)%s\n", a.Name, len(a.Commands), tag)
		case *datapack.Advancement:
			fmt.Fprintf(out, "  · advancement %s (%d triggers)\n", a.Name, len(a.Triggers))
		}
	}
	if result.Manifest != nil {
		fmt.Fprintf(out, "Manifest digest %s\n", result.Manifest.Digest)
	}
}
