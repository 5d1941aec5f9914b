package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/query"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "keys", "edit", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the member-access dot, or an expr-lang operator or punctuation character.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte offsets in input. The
// word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word at
// wordStart. For input "x + meta.site.na" and the word "na", the parent path
// is "meta.site". It is empty for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:end])
}

// childCandidates returns the completions valid after parent. At the top
// level these are the document's identifier members, the doc variable, and
// every callable function. Below it they are the members of the object at
// parent.
func childCandidates(doc json.Value, parent string) []string {
	if parent == "" {
		names := query.Members(doc, "")
		names = append(names, query.DocIdentifier)
		names = append(names, builtinNames()...)

		for name := range query.Functions {
			names = append(names, name)
		}

		return names
	}

	return query.Members(doc, parent)
}

// computeMatches calculates the fuzzy matches for the word at the cursor,
// best first, along with the candidate list and the word's offsets. An empty
// word at the top level yields no matches; after a dot it lists every
// member.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.doc, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate, when tab-cycling, uses selectedStyle.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions get a "()" suffix that is not part of the
// completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// formatPreview returns a short single-line preview of v.
func formatPreview(v json.Value, opts ...json.Option) string {
	const maxPreview = 40

	switch v.Kind() {
	case json.KindArray:
		arr, _ := v.AsArray()

		return "[ " + itemCount(arr.Len()) + " ]"

	case json.KindObject:
		obj, _ := v.AsObject()

		return "{ " + itemCount(obj.Len()) + " }"
	}

	var sb strings.Builder

	_, _ = json.Print(v, &sb, opts...)

	s := sb.String()
	if len(s) > maxPreview {
		return s[:maxPreview-3] + "..."
	}

	return s
}

func itemCount(n int) string {
	if n == 1 {
		return "1 item"
	}

	return strconv.Itoa(n) + " items"
}

// isFunction reports whether name is callable in an expression.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	_, ok := query.Functions[name]

	return ok
}
