package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no function call", "readings", 8, "", 0, false},
		{"first arg empty", "len(", 4, "len", 0, true},
		{"first arg", "len(doc", 7, "len", 0, true},
		{"second arg empty", "join(tags,", 10, "join", 1, true},
		{"second arg", `join(tags, "-"`, 14, "join", 1, true},
		{"member chain", "doc.meta.len(", 13, "len", 0, true},
		{"closure commas ignored", "filter(readings, {#, 1}", 23, "filter", 1, true},
		{"array commas ignored", "len([1, 2, 3]", 13, "len", 0, true},
		{"nested parens", "join(map(a, #),", 15, "join", 1, true},
		{"cursor inside nested call", "join(map(a, #), ',')", 9, "map", 0, true},
		{"after closing paren", "len(a) + 1", 10, "", 0, false},
		{"grouping paren", "(a + b", 6, "", 0, false},
		{"cursor past end", "len(", 99, "len", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("detectFunctionCall().name = %q, want %q", got.name, tt.wantName)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall().argIndex = %d, want %d", got.argIndex, tt.wantIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall().inCall = %v, want %v", got.inCall, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name       string
		funcName   string
		wantText   string
		wantParams []string
	}{
		{"builtin len", "len", "len(v)", []string{"v"}},
		{"builtin join", "join", "join(array, separator)", []string{"array", "separator"}},
		{"builtin filter", "filter", "filter(array, predicate)", []string{"array", "predicate"}},
		{"builtin replace", "replace", "replace(string, old, new)", []string{"string", "old", "new"}},
		{"measure", "measure", "measure(v)", []string{"v"}},
		{"fingerprint", "fingerprint", "fingerprint(v)", []string{"v"}},
		{"unknown", "doesnotexist", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := getSignature(tt.funcName)

			if got.text != tt.wantText {
				t.Errorf("getSignature(%q).text = %q, want %q", tt.funcName, got.text, tt.wantText)
			}

			if !slices.Equal(got.params, tt.wantParams) {
				t.Errorf("getSignature(%q).params = %q, want %q", tt.funcName, got.params, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		sig      signature
		argIndex int
	}{
		{"no params", signature{"now()", nil}, 0},
		{"first param", signature{"join(array, separator)", []string{"array", "separator"}}, 0},
		{"second param", signature{"join(array, separator)", []string{"array", "separator"}}, 1},
		{"variadic", signature{"concat(...parts)", []string{"...parts"}}, 2},
		{"beyond last", signature{"len(v)", []string{"v"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.sig, tt.argIndex)

			name := tt.sig.text[:strings.IndexByte(tt.sig.text, '(')]
			if !strings.Contains(got, name) {
				t.Errorf("hint %q missing function name %q", got, name)
			}

			for _, param := range tt.sig.params {
				if !strings.Contains(got, param) {
					t.Errorf("hint %q missing parameter %q", got, param)
				}
			}
		})
	}
}

func TestBuiltinNames(t *testing.T) {
	names := builtinNames()

	if !slices.IsSorted(names) {
		t.Error("builtin names are not sorted")
	}

	if len(names) != len(exprLangBuiltins) {
		t.Errorf("expected %d names, got %d", len(exprLangBuiltins), len(names))
	}
}

func BenchmarkDetectFunctionCall(b *testing.B) {
	const input = "join(map(filter(readings, # > 1), string(#)), ',')"

	for b.Loop() {
		_ = detectFunctionCall(input, 30)
	}
}

func BenchmarkGetSignature(b *testing.B) {
	functions := []string{"len", "join", "filter", "measure", "upper", "missing"}

	for i := 0; b.Loop(); i++ {
		_ = getSignature(functions[i%len(functions)])
	}
}
