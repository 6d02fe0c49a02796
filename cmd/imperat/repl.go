package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

const (
	promptMain = "imperat> "
	promptCont = "...      "
)

func runREPL(o *options) error {
	fmt.Fprintln(o.stdout, "imperat REPL. Enter a block such as { int x; x := 1 }. Commands: :source, :quit")

	histPath := o.cfg.HistoryFile
	if !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		} else {
			o.logf("[repl] %v", errors.Wrapf(err, "failed to save history to %s", histPath))
		}
	}()

	showSource := false
	for {
		code, ok := readBlock(ln)
		if !ok {
			fmt.Fprintln(o.stdout)
			return nil
		}
		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit" || trimmed == ":q":
			return nil
		case trimmed == ":source":
			showSource = !showSource
			fmt.Fprintf(o.stdout, "artifact source display: %v\n", showSource)
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(o.stdout, "unknown command. Type :quit to exit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		evalSnippet(o, code, showSource)
	}
}

// evalSnippet compiles and runs one program, reporting errors the same
// way the file commands do.
func evalSnippet(o *options, code string, showSource bool) {
	res, err := compileFn(code)
	if err != nil {
		o.report("<repl>", code, err)
		return
	}
	if showSource {
		fmt.Fprint(o.stdout, res.Artifact.Source())
	}
	out, err := res.Artifact.Run(int64(o.cfg.Fuel))
	if err != nil {
		fmt.Fprintln(o.stdout, errors.Wrap(err, "evaluation failed"))
		return
	}
	fmt.Fprintln(o.stdout, out)
}

func readBlock(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", false
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// needsMore reports whether src has an unclosed brace, ignoring braces
// inside string literals and comments.
func needsMore(src string) bool {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{':
			depth++
		case c == '}':
			depth--
		}
	}
	return depth > 0
}
