package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/ardnew/ajson/json"
	"github.com/ardnew/ajson/log"
	"github.com/ardnew/ajson/pkg"
)

const (
	defaultEditor = "vi"
	editIndent    = "  "
)

// editDocCommand implements [tea.ExecCommand] for the edit-parse-retry
// loop. It writes the document to a temp file, opens the user's editor, and
// parses the result. On a parse error the user is asked whether to edit
// again; declining returns [ErrEditDeclined].
type editDocCommand struct {
	doc     json.Value
	ctxFunc func() context.Context
	opts    []json.Option
	newDoc  json.Value
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editDocCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editDocCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editDocCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An emptied file cancels the edit
// and leaves newDoc invalid.
func (c *editDocCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := indentDocument(c.doc, c.opts...)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*.json")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Close(); err != nil {
		return err
	}

	in := bufio.NewScanner(c.stdin)
	parseOpts := append([]json.Option{json.WithLogger(c.logger)}, c.opts...)

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		doc, parseErr := json.ParseBytes(ctx, data, parseOpts...)
		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.newDoc = doc

			return nil
		}

		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		if !in.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = data
	}
}

// indentDocument renders doc as indented JSON followed by a newline.
func indentDocument(doc json.Value, opts ...json.Option) ([]byte, error) {
	var compact, indented bytes.Buffer

	if _, err := json.Print(doc, &compact, opts...); err != nil {
		return nil, err
	}

	if err := gojson.Indent(&indented, compact.Bytes(), "", editIndent); err != nil {
		return nil, err
	}

	indented.WriteByte('\n')

	return indented.Bytes(), nil
}

// runEditor runs $EDITOR, or vi, on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
