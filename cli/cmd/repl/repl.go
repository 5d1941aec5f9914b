package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/query"
)

// editDocMsg is sent when editing produced a new document.
type editDocMsg struct{ doc json.Value }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this help
  keys [path]   List members of the document, or of the object at path
  edit          Edit the document in $EDITOR
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type an expression to evaluate it; the document is bound to doc and its
  top-level members are variables
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to browse command history
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode is the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) String() string {
	if m == modeCtrl {
		return "ctrl"
	}

	return "eval"
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo of an evaluated expression.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo of a control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	doc        json.Value
	opts       []json.Option
	logger     log.Logger
	history    *History
	historyIdx int
	matches    fuzzy.Matches // current fuzzy match results
	candidates []string      // backing candidate list
	wordStart  int           // byte offset of current word start
	wordEnd    int           // byte offset of current word end
	suggIdx    int           // selected candidate index
	tabActive  bool          // whether user is tab-cycling
	preTab     snapshot      // input before tab-cycling began
	altNav     bool          // whether user is in Alt+Up/Down navigation
	preAltNav  snapshot      // input and mode before Alt navigation
	width      int           // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	saved      [2]snapshot // input of each mode while the other is active
}

// snapshot is a saved input line.
type snapshot struct {
	text   string
	cursor int
	mode   inputMode
}

// Run starts the REPL over doc. History is kept in cacheDir. The JSON
// options apply to expression results and to documents read back from the
// editor.
func Run(
	ctx context.Context,
	doc json.Value,
	cacheDir string,
	logger log.Logger,
	opts []json.Option,
	progOpts ...tea.ProgramOption,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if doc.IsInvalid() {
		return ErrNoSource
	}

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.String("kind", doc.Kind().String()))

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(ctx, "repl history loaded", slog.Int("entry_count", history.Len()))

	m := newModel(ctx, doc, history, logger, opts)

	p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)...)
	_, err = p.Run()

	if errors.Is(err, tea.ErrProgramKilled) && context.Cause(ctx) != nil {
		return context.Cause(ctx)
	}

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	doc json.Value,
	history *History,
	logger log.Logger,
	opts []json.Option,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		doc:        doc,
		opts:       opts,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDocMsg:
		m.doc = msg.doc
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.String("kind", m.doc.Kind().String()))

		return m, tea.Println(resultStyle.Render("✔ document updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type an expression or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case call.inCall && m.mode == modeEval && getSignature(call.name).text != "":
		b.WriteString(renderSignatureHint(getSignature(call.name), call.argIndex))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNav = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNav = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.historyCtrl(-1), nil
		}

		return m.historyStep(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.historyCtrl(1), nil
		}

		return m.historyStep(1, false), nil

	case tea.KeyShiftUp:
		return m.historyStep(-1, true), nil

	case tea.KeyShiftDown:
		return m.historyStep(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.restore(m.preTab)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNav = false

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil

	case tea.KeyRunes:
		// Space accepts the candidate being cycled.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Editing and cursor keys never auto-confirm a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNav = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping at either end. A single
// candidate is completed immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTab = m.capture()
		m.suggIdx = 0

		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word with replacement and moves
// the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input. With
// autoConfirm, a typed word that already equals the sole candidate is
// accepted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]snapshot{}
	m.input.SetValue("")

	if _, err := m.history.WriteWithMode(input, m.mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	m.logger.TraceContext(m.ctxFunc(), "repl input",
		slog.String("mode", m.mode.String()),
		slog.String("input", input))

	if m.mode == modeCtrl {
		return m.executeCommand(input)
	}

	echo := tea.Println(formatCommand(input))

	result, err := query.Eval(m.ctxFunc(), m.doc, input, m.opts...)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed", slog.Any("error", err))

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval result",
		slog.String("kind", result.Kind().String()))

	var out strings.Builder

	if _, err := json.Print(result, &out, m.opts...); err != nil {
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out.String())))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(formatCtrlCommand(input))
	cmd, args := parts[0], parts[1:]

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "k", "keys", "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.listMembers(strings.Join(args, ""))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editDocCommand{
		doc:     m.doc,
		ctxFunc: m.ctxFunc,
		opts:    m.opts,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.newDoc.IsInvalid():
			return editCancelledMsg{}
		}

		return editDocMsg{doc: cmd.newDoc}
	})
}

// listMembers renders each member of the object at path with a preview of
// its value.
func (m model) listMembers(path string) string {
	v, ok := query.Lookup(m.doc, path)
	if !ok {
		return errorStyle.Render("no such path: " + path)
	}

	var b strings.Builder

	switch v.Kind() {
	case json.KindObject:
		obj, _ := v.AsObject()
		for key, val := range obj.All() {
			fmt.Fprintf(&b, "  %s %s\n", query.Member("", key), hintStyle.Render(formatPreview(val, m.opts...)))
		}

	case json.KindArray:
		arr, _ := v.AsArray()
		for i, val := range arr.All() {
			fmt.Fprintf(&b, "  %s %s\n", query.Index("", i), hintStyle.Render(formatPreview(val, m.opts...)))
		}

	default:
		fmt.Fprintf(&b, "  %s\n", hintStyle.Render(formatPreview(v, m.opts...)))
	}

	return b.String()
}

// historyStep moves through history by step. With sameMode, entries from
// the other mode are skipped; otherwise the mode follows the entry. Moving
// past the newest entry clears the input.
func (m model) historyStep(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.GetEntry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		m.historyIdx = i
		m.load(entry)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m
}

// historyCtrl browses command history only. The first step saves the input
// and switches to command mode; running off either end restores it.
func (m model) historyCtrl(step int) model {
	if !m.altNav {
		m.altNav = true
		m.preAltNav = m.capture()
		m = m.switchToMode(modeCtrl)
	}

	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.GetEntry(i); err == nil && entry.Mode == modeCtrl {
			m.historyIdx = i
			m.load(entry)

			return m
		}
	}

	m.altNav = false
	m = m.switchToMode(m.preAltNav.mode)
	m.restore(m.preAltNav)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}

// load places a history entry in the input, switching mode if needed.
func (m *model) load(entry HistoryEntry) {
	if m.mode != entry.Mode {
		*m = m.switchToMode(entry.Mode)
	}

	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(m, false)
}

func (m model) capture() snapshot {
	return snapshot{text: m.input.Value(), cursor: m.input.Position(), mode: m.mode}
}

func (m *model) restore(s snapshot) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

// switchToMode switches to mode, saving the current mode's input and
// restoring the input last entered in mode.
func (m model) switchToMode(mode inputMode) model {
	m.saved[m.mode] = m.capture()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.restore(m.saved[mode])
	refreshMatches(&m, false)

	return m
}
