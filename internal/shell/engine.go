// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nitindahiya-dev/terminalAI/internal/router"
)

// resultBuffer is the capacity of the delivery channel. A finished task
// whose result does not fit waits for the next Poll.
const resultBuffer = 64

// =============================================================================
// JOBS AND RESULTS
// =============================================================================

// Job describes one dispatch.
type Job struct {
	// Input is the line as submitted.
	Input string
	// Command is the literal shell command. Ignored when Resolve is set.
	Command string
	// Dir is the working directory captured when the job was dispatched.
	Dir string
	// Resolve, if set, produces the command on the background goroutine
	// (natural-language translation).
	Resolve func(ctx context.Context) (router.Command, error)
}

// Result is the outcome of one dispatch. It is created on the background
// goroutine and handed over by value.
type Result struct {
	Seq   uint64
	Input string
	// Command is the shell command that ran, if any.
	Command string
	// Output is the captured text (stdout, or stdout + "\n" + stderr).
	Output string
	// Err is a resolution error or an *ExecError.
	Err error
	// Builtin is set when resolution produced a command only the session
	// can perform (clear, cd). Nothing was spawned.
	Builtin *router.Command
	// Duration is the wall time of the whole job.
	Duration time.Duration
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine runs jobs off the interactive goroutine: one goroutine per dispatch,
// no pool, no limit and no cancellation. Results are delivered in completion
// order and drained with Poll.
type Engine struct {
	runner  Runner
	ctx     context.Context
	results chan Result
	seq     atomic.Uint64
	pending atomic.Int64
	logger  *zap.Logger
}

// NewEngine creates an engine that runs commands with runner.
func NewEngine(runner Runner, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		runner:  runner,
		ctx:     context.Background(),
		results: make(chan Result, resultBuffer),
		logger:  logger,
	}
}

// Dispatch starts job on a new goroutine and returns its sequence number.
// Exactly one Result is delivered for every dispatch.
func (e *Engine) Dispatch(job Job) uint64 {
	seq := e.seq.Add(1)
	e.pending.Add(1)
	e.logger.Debug("dispatch",
		zap.Uint64("seq", seq),
		zap.String("input", job.Input),
		zap.Bool("resolve", job.Resolve != nil))

	go e.run(seq, job)
	return seq
}

func (e *Engine) run(seq uint64, job Job) {
	start := time.Now()
	res := Result{Seq: seq, Input: job.Input}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Seq: seq, Input: job.Input, Err: fmt.Errorf("internal error: %v", r)}
			e.logger.Error("job panicked", zap.Uint64("seq", seq), zap.Any("panic", r))
		}
		res.Duration = time.Since(start)
		e.results <- res
	}()

	cmd := router.Command{Kind: router.KindShell, Text: job.Command}
	if job.Resolve != nil {
		resolved, err := job.Resolve(e.ctx)
		if err != nil {
			res.Err = err
			return
		}
		cmd = resolved
	}

	// Only the session can clear its log or change its directory.
	if cmd.Kind != router.KindShell || strings.TrimSpace(cmd.Text) == "clear" {
		if cmd.Kind == router.KindShell {
			cmd = router.Command{Kind: router.KindClear}
		}
		res.Builtin = &cmd
		return
	}

	res.Command = cmd.Text
	res.Output, res.Err = e.runner.Run(e.ctx, job.Dir, cmd.Text)

	e.logger.Debug("command finished",
		zap.Uint64("seq", seq),
		zap.String("command", cmd.Text),
		zap.String("took", formatDuration(time.Since(start))),
		zap.Error(res.Err))
}

// Poll returns every result that is ready, without blocking.
func (e *Engine) Poll() []Result {
	var out []Result
	for {
		select {
		case r := <-e.results:
			e.pending.Add(-1)
			out = append(out, r)
		default:
			return out
		}
	}
}

// Pending returns the number of dispatches whose result has not been polled.
func (e *Engine) Pending() int {
	return int(e.pending.Load())
}
