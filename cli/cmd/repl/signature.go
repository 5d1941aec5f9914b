package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ajson/query"
)

// signature describes the parameters of a callable function.
type signature struct {
	text   string
	params []string
}

// exprLangBuiltins are the signatures of the expr-lang builtin functions
// most useful against JSON documents.
var exprLangBuiltins = map[string]signature{
	"len":           {"len(v)", []string{"v"}},
	"all":           {"all(array, predicate)", []string{"array", "predicate"}},
	"any":           {"any(array, predicate)", []string{"array", "predicate"}},
	"one":           {"one(array, predicate)", []string{"array", "predicate"}},
	"none":          {"none(array, predicate)", []string{"array", "predicate"}},
	"map":           {"map(array, mapper)", []string{"array", "mapper"}},
	"filter":        {"filter(array, predicate)", []string{"array", "predicate"}},
	"find":          {"find(array, predicate)", []string{"array", "predicate"}},
	"findIndex":     {"findIndex(array, predicate)", []string{"array", "predicate"}},
	"findLast":      {"findLast(array, predicate)", []string{"array", "predicate"}},
	"findLastIndex": {"findLastIndex(array, predicate)", []string{"array", "predicate"}},
	"groupBy":       {"groupBy(array, mapper)", []string{"array", "mapper"}},
	"sortBy":        {"sortBy(array, mapper)", []string{"array", "mapper"}},
	"count":         {"count(array, predicate)", []string{"array", "predicate"}},
	"sum":           {"sum(array)", []string{"array"}},
	"mean":          {"mean(array)", []string{"array"}},
	"median":        {"median(array)", []string{"array"}},
	"min":           {"min(array)", []string{"array"}},
	"max":           {"max(array)", []string{"array"}},
	"keys":          {"keys(map)", []string{"map"}},
	"values":        {"values(map)", []string{"map"}},
	"join":          {"join(array, separator)", []string{"array", "separator"}},
	"split":         {"split(string, separator)", []string{"string", "separator"}},
	"replace":       {"replace(string, old, new)", []string{"string", "old", "new"}},
	"trim":          {"trim(string)", []string{"string"}},
	"upper":         {"upper(string)", []string{"string"}},
	"lower":         {"lower(string)", []string{"string"}},
	"int":           {"int(v)", []string{"v"}},
	"float":         {"float(v)", []string{"v"}},
	"string":        {"string(v)", []string{"v"}},
	"type":          {"type(v)", []string{"v"}},
	"toJSON":        {"toJSON(v)", []string{"v"}},
	"fromJSON":      {"fromJSON(string)", []string{"string"}},
}

// builtinNames returns the sorted names of the expr-lang builtins with
// known signatures.
func builtinNames() []string {
	return slices.Sorted(maps.Keys(exprLangBuiltins))
}

// Styles for signature hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is a function call enclosing the cursor.
type functionCall struct {
	name     string
	argIndex int // 0-based
	inCall   bool
}

// detectFunctionCall reports the innermost function call whose argument
// list contains cursor, and which argument the cursor is in.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	open := -1

	for i, depth := cursor-1, 0; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}

		if open >= 0 {
			break
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0

	for i, depth := open+1, 0; i < cursor; i++ {
		switch input[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

func isIdentRune(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

// getSignature returns the signature of the named function, or an empty
// signature if it is unknown.
func getSignature(name string) signature {
	if sig, ok := exprLangBuiltins[name]; ok {
		return sig
	}

	if text, ok := query.Functions[name]; ok {
		open, end := strings.IndexByte(text, '('), strings.LastIndexByte(text, ')')

		var params []string
		if open >= 0 && end > open+1 {
			params = strings.Split(text[open+1:end], ", ")
		}

		return signature{text: text, params: params}
	}

	return signature{}
}

// renderSignatureHint renders sig with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(sig signature, argIndex int) string {
	open := strings.IndexByte(sig.text, '(')
	if open < 0 {
		return signatureStyle.Render(sig.text)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.text[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if argIndex == i || variadic && argIndex > i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
