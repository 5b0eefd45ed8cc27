package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jacoelho/jdoc/document"
	"github.com/jacoelho/jdoc/internal/config"
	"github.com/jacoelho/jdoc/internal/exit"
)

const library = `{"title":"The Hitchhiker's Guide to the Galaxy","novels":[{"title":"Mostly Harmless","read":false},{"title":"Life, the Universe and Everything","read":true}],"movie":{"title":"The Hitchhiker's Guide to the Galaxy","release_date":2005}}`

func newConfig(command string, args ...string) *config.Config {
	return &config.Config{
		Command:      command,
		Args:         args,
		File:         config.StdinFile,
		InputFormat:  config.FormatJSON,
		OutputFormat: config.FormatJSON,
		Type:         "any",
	}
}

func run(t *testing.T, cfg *config.Config, input string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New() = %s", exitResult.Message)
	}
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)

	code := r.Run(context.Background())
	return code, stdout.String(), stderr.String()
}

func TestRunGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		typ      string
		output   string
		wantCode int
		want     string
	}{
		{name: "string", key: "title", typ: "string", wantCode: exit.CodeSuccess, want: "The Hitchhiker's Guide to the Galaxy\n"},
		{name: "any_string_is_json", key: "title", typ: "any", wantCode: exit.CodeSuccess, want: "\"The Hitchhiker's Guide to the Galaxy\"\n"},
		{name: "document", key: "movie", typ: "document", wantCode: exit.CodeSuccess, want: "{\"title\":\"The Hitchhiker's Guide to the Galaxy\",\"release_date\":2005}\n"},
		{name: "document_yaml", key: "movie", typ: "document", output: config.FormatYAML, wantCode: exit.CodeSuccess, want: "title: The Hitchhiker's Guide to the Galaxy\nrelease_date: 2005\n"},
		{name: "document_canonical", key: "movie", typ: "document", output: config.FormatCanonical, wantCode: exit.CodeSuccess, want: "{\"release_date\":2005,\"title\":\"The Hitchhiker's Guide to the Galaxy\"}\n"},
		{name: "array", key: "novels", typ: "array", wantCode: exit.CodeSuccess, want: `[{"title":"Mostly Harmless","read":false},{"title":"Life, the Universe and Everything","read":true}]` + "\n"},
		{name: "missing_key", key: "year", typ: "int", wantCode: exit.CodeKeyNotFound},
		{name: "wrong_type", key: "title", typ: "bool", wantCode: exit.CodeConversionError},
		{name: "object_as_int", key: "movie", typ: "int", wantCode: exit.CodeConversionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newConfig(config.CommandGet, tt.key)
			cfg.Type = tt.typ
			if tt.output != "" {
				cfg.OutputFormat = tt.output
			}

			code, stdout, stderr := run(t, cfg, library)
			if code != tt.wantCode {
				t.Fatalf("Run() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if tt.wantCode != exit.CodeSuccess {
				if !strings.HasPrefix(stderr, "Error: ") {
					t.Errorf("stderr = %q, want error message", stderr)
				}
				return
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRunGetNested(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandQuery, "$.movie.release_date")
	cfg.Type = "uint"

	code, stdout, stderr := run(t, cfg, library)
	if code != exit.CodeSuccess || stdout != "2005\n" {
		t.Fatalf("Run() = (%d, %q), want (0, 2005) (stderr: %s)", code, stdout, stderr)
	}
}

func TestRunQuery(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandQuery, "$.novels[*].title")
	cfg.Type = "string"

	code, stdout, _ := run(t, cfg, library)
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if want := "Mostly Harmless\nLife, the Universe and Everything\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	cfg = newConfig(config.CommandQuery, "$.nope")
	if code, _, _ := run(t, cfg, library); code != exit.CodeKeyNotFound {
		t.Errorf("Run() without matches = %d, want %d", code, exit.CodeKeyNotFound)
	}

	cfg = newConfig(config.CommandQuery, "$[?")
	if code, _, _ := run(t, cfg, library); code != exit.CodeError {
		t.Errorf("Run() with invalid path = %d, want %d", code, exit.CodeError)
	}
}

func TestRunSet(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandSet, "read=true", "year=2005", "title=Mostly Harmless", "id={{uuid}}", "owner={{upper .user}}", "code={{quote .code}}")
	cfg.Variables = map[string]any{"user": "arthur", "code": "42"}

	code, stdout, stderr := run(t, cfg, `{"title":"X"}`)
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, want 0 (stderr: %s)", code, stderr)
	}

	doc, err := document.Decode(stdout)
	if err != nil {
		t.Fatalf("output is not a document: %v", err)
	}
	if want := []string{"title", "read", "year", "id", "owner", "code"}; strings.Join(doc.Keys(), ",") != strings.Join(want, ",") {
		t.Fatalf("Keys() = %v, want %v", doc.Keys(), want)
	}
	if read, err := document.Get[bool](doc, "read"); err != nil || !read {
		t.Errorf("read = (%v, %v), want true", read, err)
	}
	if year, err := document.Get[int](doc, "year"); err != nil || year != 2005 {
		t.Errorf("year = (%d, %v), want 2005", year, err)
	}
	if title, err := document.Get[string](doc, "title"); err != nil || title != "Mostly Harmless" {
		t.Errorf("title = (%q, %v)", title, err)
	}
	if id, err := document.Get[uuid.UUID](doc, "id"); err != nil || id == uuid.Nil {
		t.Errorf("id = (%v, %v), want a UUID", id, err)
	}
	if owner, _ := document.Get[string](doc, "owner"); owner != "ARTHUR" {
		t.Errorf("owner = %q, want ARTHUR", owner)
	}
	if code, err := document.Get[string](doc, "code"); err != nil || code != "42" {
		t.Errorf("code = (%q, %v), want string 42", code, err)
	}
}

func TestRunSetTemplateError(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandSet, "a={{.missing}}")
	code, _, stderr := run(t, cfg, `{}`)
	if code != exit.CodeError || !strings.Contains(stderr, `template for "a"`) {
		t.Fatalf("Run() = (%d, %q), want template error", code, stderr)
	}
}

func TestRunFmtYAMLInput(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandFmt)
	cfg.InputFormat = config.FormatYAML

	code, stdout, stderr := run(t, cfg, "title: X\nread: true\nyear: 2005\n")
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d (stderr: %s)", code, stderr)
	}
	if want := `{"title":"X","read":true,"year":2005}` + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want no output without -debug", stderr)
	}
}

func TestRunMalformedInput(t *testing.T) {
	t.Parallel()

	code, stdout, stderr := run(t, newConfig(config.CommandFmt), "not a valid json string")
	if code != exit.CodeError || stdout != "" {
		t.Fatalf("Run() = (%d, %q), want (1, \"\")", code, stdout)
	}
	if !strings.Contains(stderr, "malformed document") {
		t.Errorf("stderr = %q, want malformed document", stderr)
	}
}

func TestRunLines(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandGet, "title")
	cfg.Type = "string"
	cfg.Lines = true
	cfg.Debug = true

	input := "{\"title\":\"a\"}\n\n{\"title\":\"b\"}\n{\"title\":\"c\"}\n"
	code, stdout, stderr := run(t, cfg, input)
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d (stderr: %s)", code, stderr)
	}
	if stdout != "a\nb\nc\n" {
		t.Errorf("stdout = %q, want a, b, c", stdout)
	}
	if !strings.Contains(stderr, "document=3") || !strings.Contains(stderr, "level=debug") {
		t.Errorf("debug output = %q, want document markers", stderr)
	}
}

func TestRunLinesStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandGet, "title")
	cfg.Type = "string"
	cfg.Lines = true

	code, stdout, _ := run(t, cfg, "{\"title\":\"a\"}\n{\"name\":\"b\"}\n{\"title\":\"c\"}\n")
	if code != exit.CodeKeyNotFound {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeKeyNotFound)
	}
	if stdout != "a\n" {
		t.Errorf("stdout = %q, want only the first document", stdout)
	}
}

func TestRunLinesCancelled(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandFmt)
	cfg.Lines = true
	cfg.RateLimit = 0.001

	var stdout, stderr bytes.Buffer
	r, exitResult := New(cfg)
	if exitResult != nil {
		t.Fatalf("New() = %s", exitResult.Message)
	}
	r.SetInput(strings.NewReader("{}\n{}\n"))
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != exit.CodeError {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeError)
	}
	if !strings.Contains(stderr.String(), "Interrupted after 0 documents") {
		t.Errorf("stderr = %q, want interruption message", stderr.String())
	}
}

func TestRunFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "movie.json")
	if err := os.WriteFile(path, []byte(`{"b":1,"a":2}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := newConfig(config.CommandFmt)
	cfg.File = path
	cfg.OutputFormat = config.FormatCanonical

	code, stdout, _ := run(t, cfg, "")
	if code != exit.CodeSuccess || stdout != "{\"a\":2,\"b\":1}\n" {
		t.Fatalf("Run() = (%d, %q)", code, stdout)
	}
}

func TestNewRejectsUnknownOutputFormat(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandFmt)
	cfg.OutputFormat = "xml"

	if r, exitResult := New(cfg); r != nil || exitResult == nil || exitResult.ExitCode != exit.CodeError {
		t.Fatalf("New() = (%v, %+v), want error result", r, exitResult)
	}
}

func TestRunLinesYAMLSeparatesDocuments(t *testing.T) {
	t.Parallel()

	cfg := newConfig(config.CommandGet, "movie")
	cfg.Lines = true
	cfg.OutputFormat = config.FormatYAML

	code, stdout, stderr := run(t, cfg, "{\"movie\":{\"a\":1}}\n{\"movie\":{\"a\":2}}\n")
	if code != exit.CodeSuccess {
		t.Fatalf("Run() = %d (stderr: %s)", code, stderr)
	}
	if want := "a: 1\n---\na: 2\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}
