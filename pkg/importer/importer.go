// Package importer splices imported source files into a program before
// evaluation.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/lexer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/logging"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/parser"
)

var (
	ErrImportCycle       = errors.New("import cycle")
	ErrNamespaceMismatch = errors.New("namespace mismatch")
	ErrParse             = errors.New("parse error")
)

// ParseError lists the parser diagnostics for one file.
type ParseError struct {
	Path   string
	Errors []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse errors in %s:\n\t%s", e.Path, strings.Join(e.Errors, "\n\t"))
}

func (e *ParseError) Unwrap() error { return ErrParse }

type Option func(*Resolver) error

// WithLogHandler sets the handler used for import logging.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Resolver) error {
		r.logHandler = handler
		return nil
	}
}

// WithReadFile replaces os.ReadFile as the source of file contents.
func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(r *Resolver) error {
		if read == nil {
			return errors.New("read function is nil")
		}
		r.readFile = read
		return nil
	}
}

// Resolver expands top-level imports. Each file is spliced at most once per
// Resolver, keyed by absolute path.
type Resolver struct {
	namespace string
	loaded    map[string]bool
	stack     []string
	readFile  func(string) ([]byte, error)

	logHandler slog.Handler
	logger     *slog.Logger
}

func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		loaded:   make(map[string]bool),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	r.logHandler, r.logger = logging.Setup(r.logHandler, "importer")
	return r, nil
}

// Resolve expands the imports of prog, whose file lives in baseDir.
func Resolve(prog *ast.Program, baseDir string, opts ...Option) (*ast.Program, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return r.Resolve(prog, baseDir)
}

// Resolve expands the imports of prog. Relative import paths are taken from
// baseDir.
func (r *Resolver) Resolve(prog *ast.Program, baseDir string) (*ast.Program, error) {
	r.namespace = prog.Name
	exprs, err := r.splice(prog, baseDir)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Token: prog.Token, Name: prog.Name, Expressions: exprs}, nil
}

// ResolveFile parses the file at path and expands its imports.
func (r *Resolver) ResolveFile(path string) (*ast.Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	prog, err := r.parseFile(abs)
	if err != nil {
		return nil, err
	}

	r.loaded[abs] = true
	r.stack = append(r.stack, abs)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	return r.Resolve(prog, filepath.Dir(abs))
}

func (r *Resolver) parseFile(path string) (*ast.Program, error) {
	content, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module file: %w", err)
	}
	return ParseSource(path, string(content))
}

// ParseSource parses src, reporting all parser diagnostics as a *ParseError
// labelled with name.
func ParseSource(name, src string) (*ast.Program, error) {
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return nil, &ParseError{Path: name, Errors: p.Errors()}
	}
	return prog, nil
}

func (r *Resolver) splice(prog *ast.Program, dir string) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(prog.Expressions))
	for _, expr := range prog.Expressions {
		imp, ok := expr.(*ast.ImportExpression)
		if !ok {
			out = append(out, expr)
			continue
		}

		path := imp.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", imp.Token.Pos(), err)
		}

		for _, open := range r.stack {
			if open == abs {
				chain := append(append([]string{}, r.stack...), abs)
				return nil, fmt.Errorf("%s: %w: %s", imp.Token.Pos(), ErrImportCycle, strings.Join(chain, " -> "))
			}
		}
		if r.loaded[abs] {
			r.logger.Debug("import already loaded", "path", abs)
			continue
		}

		child, err := r.parseFile(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: import %q: %w", imp.Token.Pos(), imp.Path, err)
		}
		if child.Name != "" && r.namespace != "" && child.Name != r.namespace {
			return nil, fmt.Errorf("%s: %w: %s declares datapack %q, expected %q",
				imp.Token.Pos(), ErrNamespaceMismatch, imp.Path, child.Name, r.namespace)
		}

		r.loaded[abs] = true
		r.stack = append(r.stack, abs)
		exprs, err := r.splice(child, filepath.Dir(abs))
		r.stack = r.stack[:len(r.stack)-1]
		if err != nil {
			return nil, err
		}

		r.logger.Debug("import spliced", "path", abs, "expressions", len(exprs))
		out = append(out, exprs...)
	}
	return out, nil
}
