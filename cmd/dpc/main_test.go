package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/config"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/datapack"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/importer"
	"github.com/JustinHuPrime/DataPackCrafter-sub000/pkg/pack"
)

func discardHandler() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func demoProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSource(t, dir, "lib.dpc", `define greet(who) "say hello {who}"`)
	return writeSource(t, dir, "main.dpc", `datapack demo
import "lib.dpc"
print "building"
function "hello" { greet("world") }
on (load) { execute "hello" }
`)
}

func TestCompile(t *testing.T) {
	var out bytes.Buffer
	result, err := compile(demoProject(t), config.Default(), discardHandler(), &out)
	require.NoError(t, err)

	assert.Equal(t, "demo", result.Namespace)
	assert.Equal(t, "building\n", out.String())
	assert.Nil(t, result.Manifest)

	files := make(map[string]string)
	for _, f := range result.Files {
		files[f.Path] = string(f.Content)
	}
	assert.Equal(t, "say hello world", files["data/demo/functions/hello.mcfunction"])
	assert.Equal(t, "function demo:hello", files["data/demo/functions/.function0.mcfunction"])
	assert.JSONEq(t, `{"values": ["demo:.function0"]}`, files[datapack.LoadTagPath])
	assert.Contains(t, files, datapack.PackMetaPath)
}

func TestCompileWithSignedManifest(t *testing.T) {
	cfg := config.Default()
	cfg.SigningKey = "secret"

	result, err := compile(demoProject(t), cfg, discardHandler(), io.Discard)
	require.NoError(t, err)
	require.NotNil(t, result.Manifest)
	assert.NotEmpty(t, result.Manifest.Signature)

	last := result.Files[len(result.Files)-1]
	assert.Equal(t, pack.ManifestPath, last.Path)

	manifest, rest, err := pack.SplitManifest(result.Files)
	require.NoError(t, err)
	require.NoError(t, manifest.Check(rest))
	require.NoError(t, manifest.Verify([]byte("secret")))
}

func TestCompileErrors(t *testing.T) {
	dir := t.TempDir()

	headless := writeSource(t, dir, "headless.dpc", `function { "say hi" }`)
	_, err := compile(headless, config.Default(), discardHandler(), io.Discard)
	assert.True(t, errors.Is(err, errMissingNamespace))

	broken := writeSource(t, dir, "broken.dpc", "datapack demo\nlet (x 1) x")
	_, err = compile(broken, config.Default(), discardHandler(), io.Discard)
	assert.True(t, errors.Is(err, importer.ErrParse))

	_, err = compile(filepath.Join(dir, "missing.dpc"), config.Default(), discardHandler(), io.Discard)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWritePack(t *testing.T) {
	result, err := compile(demoProject(t), config.Default(), discardHandler(), io.Discard)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, writePack(dir, config.FormatDir, result.Files))
	content, err := os.ReadFile(filepath.Join(dir, "data", "demo", "functions", "hello.mcfunction"))
	require.NoError(t, err)
	assert.Equal(t, "say hello world", string(content))

	archive := filepath.Join(t.TempDir(), "demo.zip")
	require.NoError(t, writePack(archive, config.FormatZip, result.Files))
	read, err := pack.ReadZip(archive)
	require.NoError(t, err)
	assert.Len(t, read, len(result.Files))
}

func TestPrintArtifacts(t *testing.T) {
	result, err := compile(demoProject(t), config.Default(), discardHandler(), io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	printArtifacts(&out, result)
	assert.Equal(t, "Namespace demo: 2 artifacts\n"+
		"  · function hello (1 commands)\n"+
		"  · function .function0 (1 commands) #load\n", out.String())
}

func TestPrintTokens(t *testing.T) {
	var out bytes.Buffer
	printTokens(&out, "grant x")
	lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "GRANT")
	assert.Contains(t, string(lines[1]), `"x"`)
	assert.Contains(t, string(lines[2]), "EOF")
}

func TestPrintError(t *testing.T) {
	var out bytes.Buffer
	_, err := importer.ParseSource("x.dpc", "let (a 1) a")
	printError(&out, err)
	assert.Contains(t, out.String(), "Parser errors in x.dpc:\n\t1:8: ")

	out.Reset()
	printError(&out, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", out.String())
}
