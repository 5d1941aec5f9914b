package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/ajson/json"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "len(fo", 6, "fo", 4, 6},
		{"after_comma", "join(a, fo", 10, "fo", 8, 10},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"in_map_literal", "{n: fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"cursor_past_end", "foo", 9, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"empty_after_dot", "meta.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x == a.b.", 9, "a.b"},
		{"doc_root", "doc.", 4, "doc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	doc, err := json.Parse(`{"name": "probe", "meta": {"site": "n", "x-y": 1}, "odd key": 0}`)
	if err != nil {
		t.Fatal(err)
	}

	top := childCandidates(doc, "")
	for _, want := range []string{"name", "meta", "doc", "filter", "measure", "fingerprint"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level candidates missing %q", want)
		}
	}

	if slices.Contains(top, "odd key") {
		t.Error("non-identifier key offered as a candidate")
	}

	for _, parent := range []string{"meta", "doc.meta"} {
		if got := childCandidates(doc, parent); !slices.Equal(got, []string{"site"}) {
			t.Errorf("childCandidates(%q) = %q, want [site]", parent, got)
		}
	}

	if got := childCandidates(doc, "name"); len(got) != 0 {
		t.Errorf("expected no members of a string, got %q", got)
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`[1, 2]`, "[ 2 items ]"},
		{`{"a": 1}`, "{ 1 item }"},
		{`"short"`, `"short"`},
		{`"abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz"`, `"abcdefghijklmnopqrstuvwxyzabcdefghij...`},
		{`1.5`, `1.50000`},
	}

	for _, tt := range tests {
		v, err := json.Parse(tt.input)
		if err != nil {
			t.Fatal(err)
		}

		if got := formatPreview(v); got != tt.want {
			t.Errorf("formatPreview(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsFunction(t *testing.T) {
	for name, want := range map[string]bool{
		"len": true, "filter": true, "measure": true, "fingerprint": true,
		"doc": false, "name": false,
	} {
		if got := isFunction(name); got != want {
			t.Errorf("isFunction(%q) = %v, want %v", name, got, want)
		}
	}
}
