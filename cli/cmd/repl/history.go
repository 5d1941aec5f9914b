package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
)

const baseHistory = "history.jsonl"

// HistoryEntry is a single history line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// value returns e as a JSON object.
func (e HistoryEntry) value() json.Value {
	obj := json.NewObject()
	obj.Set("mode", json.String(e.Mode.String()))
	obj.Set("line", json.String(e.Line))

	return json.ObjectOf(obj)
}

// parseHistoryEntry decodes one line of the history file.
func parseHistoryEntry(line string) (HistoryEntry, error) {
	v, err := json.Parse(line)
	if err != nil {
		return HistoryEntry{}, ErrHistory.Wrap(err)
	}

	obj, err := v.AsObject()
	if err != nil {
		return HistoryEntry{}, ErrHistory.Wrap(err)
	}

	text, _ := obj.Get("line")

	entry := HistoryEntry{Mode: modeEval}
	if entry.Line, err = text.AsString(); err != nil {
		return HistoryEntry{}, ErrHistory.Wrap(err)
	}

	if mode, ok := obj.Get("mode"); ok {
		if s, _ := mode.AsString(); s == modeCtrl.String() {
			entry.Mode = modeCtrl
		}
	}

	return entry, nil
}

// History is the REPL input history, persisted one JSON object per line.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a new History backed by the file at path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the in-memory history with the contents of the history
// file. A missing file is an empty history; malformed lines are skipped.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := parseHistoryEntry(line)
		if err != nil {
			log.Debug("skipping history line", slog.Any("error", err))

			continue
		}

		h.entries = append(h.entries, entry)
	}

	return scanner.Err()
}

// Write appends entry in eval mode.
func (h *History) Write(entry string) (int, error) {
	return h.WriteWithMode(entry, modeEval)
}

// WriteWithMode appends entry with the given mode. An earlier identical
// entry is moved to the end rather than repeated.
func (h *History) WriteWithMode(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	item := HistoryEntry{Line: entry, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == item {
		return len(entry), nil
	}

	if i := slices.Index(h.entries, item); i >= 0 {
		h.entries = append(slices.Delete(h.entries, i, i+1), item)

		return h.rewriteFile()
	}

	h.entries = append(h.entries, item)

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return writeHistoryEntry(file, item)
}

// GetLine returns the line of entry i, oldest first.
func (h *History) GetLine(i int) (string, error) {
	entry, err := h.GetEntry(i)

	return entry.Line, err
}

// GetEntry returns entry i, oldest first.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds.With(slog.Int("index", i))
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	total := 0

	for _, entry := range h.entries {
		n, err := writeHistoryEntry(file, entry)
		total += n

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func writeHistoryEntry(file *os.File, entry HistoryEntry) (int, error) {
	w := bufio.NewWriter(file)

	n, err := json.Println(entry.value(), w)
	if err != nil {
		return n, err
	}

	return n, w.Flush()
}
