// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/nitindahiya-dev/terminalAI/internal/completion"
	"github.com/nitindahiya-dev/terminalAI/internal/router"
	"github.com/nitindahiya-dev/terminalAI/internal/shell"
	"github.com/nitindahiya-dev/terminalAI/internal/vt"
)

// WelcomeMessage is the first line of every new log.
const WelcomeMessage = "Welcome to terminalAI! Type commands below."

const (
	// recordTimeout bounds a single history write.
	recordTimeout = 2 * time.Second
	// recordQueueSize is how many lines may wait for the history writer.
	recordQueueSize = 256
)

// Outcome tells the caller what to do after a submission.
type Outcome int

const (
	// OutcomeNone: keep running.
	OutcomeNone Outcome = iota
	// OutcomeExit: the user asked to leave. In-flight results are dropped.
	OutcomeExit
)

// Recorder persists submitted lines.
type Recorder interface {
	RecordCommand(ctx context.Context, sessionID, dir, line string) error
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Session. Zero values select sensible defaults.
type Options struct {
	// Classifier decides how lines run. Defaults to the built-in allow-list.
	Classifier *router.Classifier
	// Delegate translates natural language. Nil makes such lines fail with
	// router.ErrNoDelegate.
	Delegate router.Delegate
	// Runner executes shell commands. Defaults to shell.NewExecutor().
	Runner shell.Runner
	// Completer handles tab completion. Defaults to completion.New().
	Completer *completion.Completer
	// Recorder, if set, receives every submitted line.
	Recorder Recorder
	Logger   *zap.Logger

	// Cwd is the starting directory. Defaults to the process directory.
	Cwd string
	// Home is used by "cd" with no argument and "~". Defaults to $HOME.
	Home string
	// User and Host appear in the prompt echo.
	User string
	Host string

	// Chdir keeps the process directory in sync. Defaults to os.Chdir.
	Chdir func(dir string) error

	// History seeds the navigation history, oldest first.
	History    []string
	MaxHistory int
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the interactive state of one shell.
type Session struct {
	id string

	lines       []vt.Line
	epoch       uint64
	input       string
	history     *History
	completions []string
	cwd         string

	home string
	user string
	host string

	engine     *shell.Engine
	classifier *router.Classifier
	delegate   router.Delegate
	completer  *completion.Completer
	writer     *historyWriter
	chdir      func(string) error
	logger     *zap.Logger
}

// New creates a session whose log holds the welcome line.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = router.New(nil)
	}
	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecutor()
	}
	completer := opts.Completer
	if completer == nil {
		completer = completion.New()
	}
	chdir := opts.Chdir
	if chdir == nil {
		chdir = os.Chdir
	}

	home := opts.Home
	if home == "" {
		home = os.Getenv("HOME")
	}
	cwd := opts.Cwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		} else {
			cwd = home
		}
	}

	s := &Session{
		id:         uuid.New().String(),
		lines:      []vt.Line{vt.InfoLine(WelcomeMessage)},
		history:    NewHistory(opts.MaxHistory, opts.History),
		cwd:        cwd,
		home:       home,
		user:       opts.User,
		host:       opts.Host,
		engine:     shell.NewEngine(runner, logger.Named("engine")),
		classifier: classifier,
		delegate:   opts.Delegate,
		completer:  completer,
		chdir:      chdir,
		logger:     logger,
	}
	if s.user == "" {
		s.user = currentUser()
	}
	if s.host == "" {
		s.host = hostname()
	}

	s.logger = s.logger.With(zap.String("session", s.id))
	if opts.Recorder != nil {
		s.writer = newHistoryWriter(opts.Recorder, s.logger)
	}
	return s
}

// Close waits for queued history writes to finish. The session must not
// be submitted to afterwards.
func (s *Session) Close() {
	if s.writer != nil {
		s.writer.close()
		s.writer = nil
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// SubmitInput submits the input buffer and clears it.
func (s *Session) SubmitInput() Outcome {
	line := s.input
	s.SetInput("")
	return s.Submit(line)
}

// Submit processes one line. Built-ins run before Submit returns; shell
// commands and natural language are dispatched and show up through Poll.
func (s *Session) Submit(line string) Outcome {
	line = norm.NFC.String(strings.TrimSpace(line))
	if line == "" {
		return OutcomeNone
	}

	s.completions = nil
	s.lines = append(s.lines, vt.Line{Text: s.Prompt() + line, Color: vt.ColorDefault, Kind: vt.LineEcho})
	s.history.Push(line)
	s.record(line)

	cmd := s.classifier.Classify(line)
	s.logger.Info("processing command", zap.Stringer("command", cmd))

	switch cmd.Kind {
	case router.KindExit:
		s.logger.Info("exit requested", zap.Int("in_flight", s.engine.Pending()))
		return OutcomeExit

	case router.KindClear:
		s.clear()

	case router.KindChangeDirectory:
		s.changeDirectory(cmd.Text)

	case router.KindShell:
		s.engine.Dispatch(shell.Job{Input: line, Command: cmd.Text, Dir: s.cwd})

	case router.KindDelegate:
		classifier, d := s.classifier, s.delegate
		s.engine.Dispatch(shell.Job{
			Input: line,
			Dir:   s.cwd,
			Resolve: func(ctx context.Context) (router.Command, error) {
				return classifier.Resolve(ctx, cmd, d)
			},
		})
	}

	return OutcomeNone
}

func (s *Session) record(line string) {
	if s.writer == nil {
		return
	}
	s.writer.enqueue(historyEntry{session: s.id, dir: s.cwd, line: line})
}

// =============================================================================
// HISTORY WRITER
// =============================================================================

type historyEntry struct {
	session, dir, line string
}

// historyWriter persists submitted lines in order on its own goroutine, so
// a slow database never stalls the interactive loop.
type historyWriter struct {
	rec    Recorder
	logger *zap.Logger
	queue  chan historyEntry
	done   chan struct{}
}

func newHistoryWriter(rec Recorder, logger *zap.Logger) *historyWriter {
	w := &historyWriter{
		rec:    rec,
		logger: logger,
		queue:  make(chan historyEntry, recordQueueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// enqueue never blocks; a full queue drops the line.
func (w *historyWriter) enqueue(e historyEntry) {
	select {
	case w.queue <- e:
	default:
		w.logger.Warn("history writer busy, line not recorded", zap.String("line", e.line))
	}
}

func (w *historyWriter) run() {
	defer close(w.done)
	for e := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := w.rec.RecordCommand(ctx, e.session, e.dir, e.line); err != nil {
			w.logger.Warn("failed to record history", zap.Error(err))
		}
		cancel()
	}
}

func (w *historyWriter) close() {
	close(w.queue)
	<-w.done
}

func (s *Session) clear() {
	s.lines = nil
	s.epoch++
}

func (s *Session) changeDirectory(target string) {
	dir, err := shell.ResolveDir(s.cwd, target, s.home)
	if err == nil {
		err = s.chdir(dir)
	}
	if err != nil {
		s.logger.Warn("cd failed", zap.String("target", target), zap.Error(err))
		s.lines = append(s.lines, vt.ErrorLine("Error changing directory: "+err.Error()))
		return
	}

	s.cwd = dir
	s.lines = append(s.lines, vt.InfoLine("Changed directory to "+dir))
}

// =============================================================================
// RESULTS
// =============================================================================

// Poll appends every finished result to the log without blocking and
// returns how many were handled.
func (s *Session) Poll() int {
	results := s.engine.Poll()
	for _, r := range results {
		s.apply(r)
	}
	return len(results)
}

func (s *Session) apply(r shell.Result) {
	fields := []zap.Field{
		zap.Uint64("seq", r.Seq),
		zap.String("input", r.Input),
		zap.Duration("took", r.Duration),
	}

	var execErr *shell.ExecError
	switch {
	case errors.As(r.Err, &execErr):
		s.logger.Error("command failed to start", append(fields, zap.Error(r.Err))...)
		s.lines = append(s.lines, vt.ErrorLine(execErr.Error()))

	case r.Err != nil:
		s.logger.Error("delegate failed", append(fields, zap.Error(r.Err))...)
		s.lines = append(s.lines, vt.ErrorLine("Error processing command: "+r.Err.Error()))

	case r.Builtin != nil:
		s.logger.Debug("delegated builtin", append(fields, zap.Stringer("command", *r.Builtin))...)
		switch r.Builtin.Kind {
		case router.KindClear:
			s.clear()
		case router.KindChangeDirectory:
			s.changeDirectory(r.Builtin.Text)
		}

	default:
		s.logger.Debug("command finished", append(fields, zap.String("command", r.Command))...)
		s.lines = append(s.lines, vt.Interpret(r.Output))
	}
}

// =============================================================================
// NAVIGATION
// =============================================================================

// HistoryUp replaces the input with the previous history entry.
func (s *Session) HistoryUp() {
	if line, ok := s.history.Up(); ok {
		s.SetInput(line)
	}
}

// HistoryDown replaces the input with the next history entry, or empties it
// after the newest one.
func (s *Session) HistoryDown() {
	if line, ok := s.history.Down(); ok {
		s.SetInput(line)
	}
}

// Complete completes the last word of the input. When several entries match,
// they are available through Completions until the input changes.
func (s *Session) Complete() {
	if strings.TrimSpace(s.input) == "" {
		return
	}
	res := s.completer.Complete(s.input, s.cwd)
	s.input = res.Input
	s.completions = res.Candidates
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Lines returns the output log. The slice must not be modified.
func (s *Session) Lines() []vt.Line { return s.lines }

// Epoch counts how many times the log has been cleared. Renderers that
// print incrementally use it to notice that Lines started over.
func (s *Session) Epoch() uint64 { return s.epoch }

// Input returns the input buffer.
func (s *Session) Input() string { return s.input }

// SetInput replaces the input buffer and discards completion candidates.
func (s *Session) SetInput(input string) {
	s.input = input
	s.completions = nil
}

// Completions returns the candidates of the last ambiguous completion.
func (s *Session) Completions() []string { return s.completions }

// Cwd returns the session's working directory.
func (s *Session) Cwd() string { return s.cwd }

// Pending returns the number of dispatched commands still running.
func (s *Session) Pending() int { return s.engine.Pending() }

// History returns the navigation history.
func (s *Session) History() *History { return s.history }

// Prompt returns the echo prefix, "user@host $ ".
func (s *Session) Prompt() string {
	return s.user + "@" + s.host + " $ "
}

// SetKnownCommands replaces the classifier's allow-list.
func (s *Session) SetKnownCommands(known []string) {
	s.classifier.SetKnownCommands(known)
}

// SetDelegate replaces the translator used for later submissions.
func (s *Session) SetDelegate(d router.Delegate) {
	s.delegate = d
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "user"
}

func hostname() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}
