package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/config"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/eval"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/importer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/lexer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/parser"
)

const (
	PROMPT      = ">>> "
	CONT_PROMPT = "... "

	replNamespace = "repl"
)

// session is one REPL run: a single store, evaluator and environment that
// every input line shares.
type session struct {
	store     *datapack.Store
	evaluator *eval.Evaluator
	env       *eval.Environment
	resolver  *importer.Resolver
	out       io.Writer
}

func newSession(namespace string, handler slog.Handler, out io.Writer) (*session, error) {
	store := datapack.NewStore()
	ev, err := eval.New(store, namespace, eval.WithLogHandler(handler), eval.WithOutput(out))
	if err != nil {
		return nil, err
	}
	resolver, err := importer.New(importer.WithLogHandler(handler))
	if err != nil {
		return nil, err
	}
	return &session{store: store, evaluator: ev, env: eval.NewEnvironment(), resolver: resolver, out: out}, nil
}

// run evaluates one complete input and prints its value.
func (s *session) run(code string) error {
	prog, err := importer.ParseSource("<repl>", code)
	if err != nil {
		return err
	}
	cwd, _ := os.Getwd()
	prog, err = s.resolver.Resolve(prog, cwd)
	if err != nil {
		return err
	}
	v, err := s.evaluator.EvalProgram(prog, s.env)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v.Inspect())
	return nil
}

// command handles a ':' line. It reports whether the REPL should exit.
func (s *session) command(line string) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":env":
		names := s.env.Names()
		sort.Strings(names)
		for _, name := range names {
			v, _ := s.env.Get(name)
			fmt.Fprintf(s.out, "%s = %s\n", name, v.Inspect())
		}
	case ":artifacts":
		printArtifacts(s.out, &compilation{Namespace: replNamespace, Store: s.store})
	case ":show":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: :show <artifact>")
			break
		}
		s.show(fields[1])
	default:
		fmt.Fprintln(s.out, "commands: :env :artifacts :show <artifact> :quit")
	}
	return false
}

func (s *session) show(name string) {
	artifact, ok := s.store.Get(name)
	if !ok {
		fmt.Fprintf(s.out, "no artifact named %q\n", name)
		return
	}
	switch a := artifact.(type) {
	case *datapack.Function:
		fmt.Fprintln(s.out, a.Serialize())
	case *datapack.Advancement:
		doc, err := a.Serialize(replNamespace)
		if err != nil {
			printError(s.out, err)
			return
		}
		fmt.Fprintln(s.out, string(doc))
	}
}

// incomplete reports whether code only failed to parse because it ended
// too early.
func incomplete(code string) bool {
	p := parser.New(lexer.New(code))
	p.ParseProgram()
	for _, msg := range p.Errors() {
		if strings.Contains(msg, "EOF") || strings.Contains(msg, "unterminated") {
			return true
		}
	}
	return false
}

func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	prompt := PROMPT
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", false
		}
		b.WriteString(line)
		code := b.String()
		if strings.TrimSpace(code) == "" || strings.HasPrefix(strings.TrimSpace(code), ":") || !incomplete(code) {
			return code, true
		}
		b.WriteString("\n")
		prompt = CONT_PROMPT
	}
}

func cmdRepl(_ []string) int {
	cfg, err := config.Load("")
	if err != nil {
		cfg = config.Default()
	}
	session, err := newSession(replNamespace, newLogHandler(cfg), os.Stdout)
	if err != nil {
		return reportError(err)
	}

	fmt.Println("dpc REPL, namespace " + replNamespace)
	fmt.Println("Type expressions and press Enter; :quit to exit")

	histPath := cfg.History
	if !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if session.command(trimmed) {
				return 0
			}
			continue
		}
		if err := session.run(code); err != nil {
			printError(os.Stderr, err)
		}
	}
}
