package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/ast"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/config"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/eval"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/importer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/lexer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/logging"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/pack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/token"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/version"
)

const appName = "dpc"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "--version", "-v", "version":
		printVersion()
		return
	case "--help", "-h", "help":
		printHelp()
		return
	}

	// A bare source file is shorthand for "dpc build <file>"
	if strings.HasSuffix(command, ".dpc") {
		os.Exit(cmdBuild(os.Args[1:]))
	}

	switch command {
	case "build":
		os.Exit(cmdBuild(args))
	case "check":
		os.Exit(cmdCheck(args))
	case "verify":
		os.Exit(cmdVerify(args))
	case "eval":
		os.Exit(cmdEval(args))
	case "inspect":
		os.Exit(cmdInspect(args))
	case "ast":
		os.Exit(cmdAST(args))
	case "tokens":
		os.Exit(cmdTokens(args))
	case "repl":
		os.Exit(cmdRepl(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printHelp()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("dpc, the data pack compiler, v" + version.Version)
	fmt.Println("\nUsage:")
	fmt.Println("  dpc <file.dpc>           Build a data pack")
	fmt.Println("  dpc repl                 Start interactive REPL")
	fmt.Println("  dpc help                 Show all commands")
}

func printVersion() {
	fmt.Printf("dpc %s\n", version.Version)
	fmt.Printf("Build Date: %s\n", version.BuildDate)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
}

func printHelp() {
	fmt.Println("dpc, compiles .dpc programs into Minecraft data packs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dpc <file.dpc>             Shortcut for 'dpc build'")
	fmt.Println("  dpc build [flags] <file>   Compile and write the pack")
	fmt.Println("  dpc check [flags] <file>   Compile and list artifacts without writing")
	fmt.Println("  dpc verify [flags] <zip>   Check a pack against its manifest")
	fmt.Println("  dpc eval '<code>'          Evaluate an expression")
	fmt.Println("  dpc inspect <file>         Summarize declarations")
	fmt.Println("  dpc ast <file>             Print the program AST")
	fmt.Println("  dpc tokens <file>          Print the token stream")
	fmt.Println("  dpc repl                   Start the interactive REPL")
	fmt.Println("  dpc version                Display build metadata")
	fmt.Println("  dpc help                   Show this help message")
	fmt.Println()
	fmt.Println("Build flags:")
	fmt.Println("  -config <file>             Settings file (default dpc.yaml)")
	fmt.Println("  -o <path>                  Output archive or directory")
	fmt.Println("  -format zip|dir            Output format")
	fmt.Println("  -manifest                  Add a BLAKE2b manifest to the pack")
	fmt.Println("  -log-level <level>         debug, info, warn or error")
	fmt.Println()
	fmt.Println("Settings can also come from .env and DPC_* environment variables.")
}

// buildFlags are shared by build and check.
type buildFlags struct {
	fs         *flag.FlagSet
	configPath string
	output     string
	format     string
	manifest   bool
	logLevel   string
}

func newBuildFlags(name string) *buildFlags {
	bf := &buildFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	bf.fs.StringVar(&bf.configPath, "config", "", "settings file")
	bf.fs.StringVar(&bf.output, "o", "", "output archive or directory")
	bf.fs.StringVar(&bf.format, "format", "", "zip or dir")
	bf.fs.BoolVar(&bf.manifest, "manifest", false, "add a manifest")
	bf.fs.StringVar(&bf.logLevel, "log-level", "", "log level")
	return bf
}

// load parses args and merges the flags over the loaded settings.
func (bf *buildFlags) load(args []string) (*config.Config, string, error) {
	if err := bf.fs.Parse(args); err != nil {
		return nil, "", err
	}
	if bf.fs.NArg() != 1 {
		return nil, "", fmt.Errorf("usage: %s %s [flags] <file.dpc>", appName, bf.fs.Name())
	}

	cfg, err := config.Load(bf.configPath)
	if err != nil {
		return nil, "", err
	}
	if bf.output != "" {
		cfg.Output = bf.output
	}
	if bf.format != "" {
		cfg.Format = bf.format
	}
	if bf.manifest {
		cfg.Manifest = true
	}
	if bf.logLevel != "" {
		cfg.LogLevel = bf.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, bf.fs.Arg(0), nil
}

func newLogHandler(cfg *config.Config) slog.Handler {
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

func cmdBuild(args []string) int {
	cfg, source, err := newBuildFlags("build").load(args)
	if err != nil {
		return reportError(err)
	}
	handler := newLogHandler(cfg)
	_, logger := logging.Setup(handler, "")

	result, err := compile(source, cfg, handler, os.Stdout)
	if err != nil {
		return reportError(err)
	}

	out := cfg.OutputPath(result.Namespace)
	if err := writePack(out, cfg.Format, result.Files); err != nil {
		return reportError(err)
	}
	logger.Info("pack written", "path", out, "format", cfg.Format, "files", len(result.Files))
	fmt.Printf("Wrote %s (%d files)\n", out, len(result.Files))
	return 0
}

func cmdCheck(args []string) int {
	cfg, source, err := newBuildFlags("check").load(args)
	if err != nil {
		return reportError(err)
	}

	result, err := compile(source, cfg, newLogHandler(cfg), os.Stdout)
	if err != nil {
		return reportError(err)
	}
	printArtifacts(os.Stdout, result)
	return 0
}

func cmdVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	key := fs.String("key", "", "signing key (default DPC_SIGNING_KEY)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s verify [-key <key>] <pack.zip>\n", appName)
		return 2
	}
	if *key == "" {
		if cfg, err := config.Load(""); err == nil {
			*key = cfg.SigningKey
		}
	}

	files, err := pack.ReadZip(fs.Arg(0))
	if err != nil {
		return reportError(err)
	}
	manifest, rest, err := pack.SplitManifest(files)
	if err != nil {
		return reportError(err)
	}
	if err := manifest.Check(rest); err != nil {
		return reportError(err)
	}
	fmt.Printf("Digest OK: %s (%d files)\n", manifest.Digest, len(manifest.Files))

	switch {
	case manifest.Signature == "":
		fmt.Println("Manifest is not signed")
	case *key == "":
		fmt.Println("Manifest is signed; pass -key to check the signature")
	default:
		if err := manifest.Verify([]byte(*key)); err != nil {
			return reportError(err)
		}
		fmt.Println("Signature OK")
	}
	return 0
}

func cmdEval(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s eval '<code>'\n", appName)
		return 2
	}

	prog, err := importer.ParseSource("<eval>", args[0])
	if err != nil {
		return reportError(err)
	}
	cwd, _ := os.Getwd()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	prog, err = importer.Resolve(prog, cwd, importer.WithLogHandler(handler))
	if err != nil {
		return reportError(err)
	}

	namespace := prog.Name
	if namespace == "" {
		namespace = replNamespace
	}
	session, err := newSession(namespace, handler, os.Stdout)
	if err != nil {
		return reportError(err)
	}
	v, err := session.evaluator.EvalProgram(prog, session.env)
	if err != nil {
		return reportError(err)
	}
	fmt.Println(v.Inspect())
	return 0
}

func cmdInspect(args []string) int {
	prog, ok := parseArgFile("inspect", args)
	if !ok {
		return 1
	}
	printInsights(os.Stdout, analyzeProgram(prog))
	return 0
}

func cmdAST(args []string) int {
	prog, ok := parseArgFile("ast", args)
	if !ok {
		return 1
	}
	fmt.Print(prog.String())
	return 0
}

func cmdTokens(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s tokens <file>\n", appName)
		return 2
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return reportError(err)
	}
	printTokens(os.Stdout, string(data))
	return 0
}

func printTokens(out io.Writer, src string) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(out, "%-18s %-24s (line %d, col %d)\n", tok.Type, fmt.Sprintf("%q", tok.Literal), tok.Line, tok.Column)
		if tok.Type == token.EOF {
			break
		}
	}
}

// parseArgFile reads and parses the single file argument, without resolving
// imports.
func parseArgFile(name string, args []string) (*ast.Program, bool) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s %s <file>\n", appName, name)
		return nil, false
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return nil, false
	}
	prog, err := importer.ParseSource(args[0], string(data))
	if err != nil {
		printError(os.Stderr, err)
		return nil, false
	}
	return prog, true
}

func reportError(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	printError(os.Stderr, err)
	return 1
}

func printError(out io.Writer, err error) {
	var parseErr *importer.ParseError
	var evalErr *eval.Error
	switch {
	case errors.As(err, &parseErr):
		io.WriteString(out, "Parser errors in "+parseErr.Path+":\n")
		for _, msg := range parseErr.Errors {
			io.WriteString(out, "\t"+msg+"\n")
		}
	case errors.As(err, &evalErr):
		fmt.Fprintf(out, "%s\n", evalErr)
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
