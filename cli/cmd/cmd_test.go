package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/ajson/json"
)

// useStdout redirects command output to a buffer for the rest of the test.
func useStdout(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prev := stdout
	stdout = &buf

	t.Cleanup(func() { stdout = prev })

	return &buf
}

// useStdin replaces command input with s for the rest of the test.
func useStdin(t *testing.T, s string) {
	t.Helper()

	prev := stdin
	stdin = strings.NewReader(s)

	t.Cleanup(func() { stdin = prev })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func sourceNames(srcs []source) []string {
	names := make([]string, len(srcs))
	for i, src := range srcs {
		names[i] = src.name
	}

	return names
}

func TestOpenSources_Order(t *testing.T) {
	useStdin(t, "")

	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "1")
	b := writeFile(t, dir, "b.json", "2")

	srcs, err := openSources([]string{"-", a, a, stdinSource, b})
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if got, want := sourceNames(srcs), []string{a, b, stdinSource}; !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOpenSources_Default(t *testing.T) {
	useStdin(t, "")

	srcs, err := openSources(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if got := sourceNames(srcs); !slices.Equal(got, []string{stdinSource}) {
		t.Errorf("expected stdin only, got %q", got)
	}
}

func TestOpenSources_SymlinkDedup(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "1")

	link := filepath.Join(dir, "link.json")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	srcs, err := openSources([]string{link, a, filepath.Join(dir, ".", "a.json")})
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if got := sourceNames(srcs); !slices.Equal(got, []string{link}) {
		t.Errorf("expected one source, got %q", got)
	}
}

func TestOpenSources_Missing(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", "1")

	_, err := openSources([]string{a, filepath.Join(dir, "missing.json")})
	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("expected ErrOpenSource, got %v", err)
	}
}

func TestEachDocument(t *testing.T) {
	useStdin(t, `"from stdin"`)

	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"n": 1}`)

	var got []string

	err := eachDocument(t.Context(), []string{"-", a}, func(name string, v json.Value) error {
		got = append(got, v.String())

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{`{"n":1}`, `"from stdin"`}; !slices.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEachDocument_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", `{"n": `)
	good := writeFile(t, dir, "good.json", `1`)

	err := eachDocument(t.Context(), []string{bad}, func(string, json.Value) error { return nil })
	if !errors.Is(err, ErrParse) || !errors.Is(err, json.ErrSyntax) {
		t.Errorf("expected ErrParse wrapping a syntax error, got %v", err)
	}

	stop := errors.New("stop")

	err = eachDocument(t.Context(), []string{good}, func(string, json.Value) error { return stop })
	if !errors.Is(err, stop) {
		t.Errorf("expected callback error, got %v", err)
	}
}

func TestOptionsFrom(t *testing.T) {
	def := optionsFrom(context.Background())
	if def.Precision != json.DefaultPrecision || def.MaxDepth != json.DefaultMaxDepth {
		t.Errorf("unexpected defaults %+v", def)
	}

	opts := Options{Precision: 2, MaxDepth: 3}
	if got := optionsFrom(WithOptions(context.Background(), opts)); got != opts {
		t.Errorf("expected %+v, got %+v", opts, got)
	}
}

func TestOptions_MaxDepth(t *testing.T) {
	useStdin(t, `[[[1]]]`)

	ctx := WithOptions(t.Context(), Options{Precision: 5, MaxDepth: 2})

	_, err := readDocument(ctx, stdinSource)
	if !errors.Is(err, json.ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestReadDocument_Stdin(t *testing.T) {
	useStdin(t, " [1, 2] ")

	v, err := readDocument(t.Context(), stdinSource)
	if err != nil {
		t.Fatal(err)
	}

	if v.String() != "[1,2]" {
		t.Errorf("expected [1,2], got %s", v)
	}
}
