// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/completion"
	"github.com/nitindahiya-dev/terminalAI/internal/session"
)

// =============================================================================
// LINE SOURCES
// =============================================================================

// lineReader supplies input lines. It is used from a single goroutine.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// scanReader reads lines from a non-interactive stream.
type scanReader struct {
	sc *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.sc.Scan() {
		return r.sc.Text(), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

// newLineReader returns a line editor on an interactive stdin and a plain
// scanner otherwise. cwd supplies the directory for tab completion.
func newLineReader(in io.Reader, sess *session.Session, cwd *atomic.Value) lineReader {
	if f, ok := in.(*os.File); !ok || f != os.Stdin || !IsTTY() {
		return &scanReader{sc: bufio.NewScanner(in)}
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)

	for _, h := range sess.History().Entries() {
		line.AppendHistory(h)
	}

	completer := completion.New()
	line.SetCompleter(func(text string) []string {
		dir, _ := cwd.Load().(string)
		return completer.Lines(text, dir)
	})
	return line
}

// =============================================================================
// LINE MODE
// =============================================================================

type readResult struct {
	text string
	err  error
}

// runLineMode runs a session on a line-oriented terminal. The calling
// goroutine owns the session; a reader goroutine blocks on input and hands
// each line over, so finished commands print while the prompt waits.
func runLineMode(ctx context.Context, o *rootOptions, in io.Reader, out io.Writer) error {
	a := newApp(o.cfg, o.logger)
	defer a.Close()

	sess, err := a.newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()
	return lineLoop(ctx, sess, in, out, o.cfg.TickInterval(), o.logger)
}

func lineLoop(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer, tick time.Duration, logger *zap.Logger) error {
	printer := newLinePrinter(out, GetColorProfile(), false)
	printer.Flush(sess)

	var cwd atomic.Value
	cwd.Store(sess.Cwd())

	reader := newLineReader(in, sess, &cwd)
	defer reader.Close()

	prompts := make(chan string)
	lines := make(chan readResult, 1)
	go func() {
		defer close(lines)
		for prompt := range prompts {
			text, err := reader.Prompt(prompt)
			lines <- readResult{text: text, err: err}
			if err != nil {
				return
			}
		}
	}()
	defer close(prompts)

	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	prompts <- sess.Prompt()
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if sess.Poll() > 0 {
				printer.Flush(sess)
				cwd.Store(sess.Cwd())
			}

		case res, ok := <-lines:
			if !ok || res.err != nil {
				aborted := ok && errors.Is(res.err, liner.ErrPromptAborted)
				if ok && !aborted && !errors.Is(res.err, io.EOF) {
					logger.Warn("input failed", zap.Error(res.err))
				}
				// End of input waits for what is still running; Ctrl+C
				// does not.
				if !aborted {
					drain(ctx, sess, printer, tick)
				}
				if isTerminalWriter(out) {
					fmt.Fprint(out, "\r\n")
				}
				return nil
			}

			if strings.TrimSpace(res.text) != "" {
				reader.AppendHistory(res.text)
			}
			outcome := sess.Submit(res.text)
			printer.Flush(sess)
			cwd.Store(sess.Cwd())
			if outcome == session.OutcomeExit {
				return nil
			}
			prompts <- sess.Prompt()
		}
	}
}

// drain polls until nothing is running or ctx ends, printing as results
// arrive.
func drain(ctx context.Context, sess *session.Session, printer *linePrinter, tick time.Duration) int {
	errs := 0
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		if sess.Poll() > 0 {
			errs += printer.Flush(sess)
		}
		if sess.Pending() == 0 {
			return errs
		}
		select {
		case <-ctx.Done():
			return errs
		case <-ticker.C:
		}
	}
}
