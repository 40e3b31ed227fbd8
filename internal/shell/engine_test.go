// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nitindahiya-dev/terminalAI/internal/router"
)

// gatedRunner blocks each command until its gate is released.
type gatedRunner struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	ran   []string
	dirs  []string
}

func newGatedRunner(commands ...string) *gatedRunner {
	g := &gatedRunner{gates: make(map[string]chan struct{})}
	for _, c := range commands {
		g.gates[c] = make(chan struct{})
	}
	return g
}

func (g *gatedRunner) Run(ctx context.Context, dir, command string) (string, error) {
	g.mu.Lock()
	gate := g.gates[command]
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	g.mu.Lock()
	g.ran = append(g.ran, command)
	g.dirs = append(g.dirs, dir)
	g.mu.Unlock()
	return "out:" + command, nil
}

func (g *gatedRunner) release(command string) {
	close(g.gates[command])
}

func (g *gatedRunner) commands() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ran...)
}

// pollUntil polls e until n results have arrived or the deadline passes.
func pollUntil(t *testing.T, e *Engine, n int) []Result {
	t.Helper()
	var got []Result
	require.Eventually(t, func() bool {
		got = append(got, e.Poll()...)
		return len(got) >= n
	}, 5*time.Second, 5*time.Millisecond)
	return got
}

func TestEngine_PollNeverBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner("slow")
	e := NewEngine(runner, nil)
	e.Dispatch(Job{Input: "slow", Command: "slow"})

	done := make(chan []Result)
	go func() { done <- e.Poll() }()

	select {
	case got := <-done:
		assert.Empty(t, got)
	case <-time.After(time.Second):
		t.Fatal("Poll blocked on an in-flight command")
	}
	assert.Equal(t, 1, e.Pending())

	runner.release("slow")
	got := pollUntil(t, e, 1)
	assert.Equal(t, "out:slow", got[0].Output)
	assert.Equal(t, 0, e.Pending())
}

func TestEngine_CompletionOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner("A", "B")
	e := NewEngine(runner, nil)

	seqA := e.Dispatch(Job{Input: "A", Command: "A"})
	seqB := e.Dispatch(Job{Input: "B", Command: "B"})
	require.NotEqual(t, seqA, seqB)

	// B finishes first.
	runner.release("B")
	first := pollUntil(t, e, 1)
	require.Len(t, first, 1)
	assert.Equal(t, "B", first[0].Command)
	assert.Equal(t, seqB, first[0].Seq)

	runner.release("A")
	second := pollUntil(t, e, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "A", second[0].Command)

	// Nothing is delivered twice.
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, e.Poll())
	assert.Equal(t, 0, e.Pending())
}

func TestEngine_ManyConcurrentDispatches(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner()
	e := NewEngine(runner, nil)

	const n = 150 // more than the channel buffer
	for i := 0; i < n; i++ {
		e.Dispatch(Job{Input: "x", Command: "x"})
	}

	got := pollUntil(t, e, n)
	assert.Len(t, got, n)

	seen := make(map[uint64]bool)
	for _, r := range got {
		assert.False(t, seen[r.Seq], "result %d delivered twice", r.Seq)
		seen[r.Seq] = true
	}
}

func TestEngine_ResolveOnBackgroundGoroutine(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner()
	e := NewEngine(runner, nil)

	release := make(chan struct{})
	e.Dispatch(Job{
		Input: "show me big files",
		Dir:   "/work",
		Resolve: func(ctx context.Context) (router.Command, error) {
			<-release
			return router.Command{Kind: router.KindShell, Text: "du -sh *"}, nil
		},
	})

	// Dispatch returned while the delegate is still working.
	assert.Empty(t, e.Poll())
	close(release)

	got := pollUntil(t, e, 1)
	assert.Equal(t, "show me big files", got[0].Input)
	assert.Equal(t, "du -sh *", got[0].Command)
	assert.Equal(t, "out:du -sh *", got[0].Output)
	assert.Equal(t, []string{"/work"}, runner.dirs)
}

func TestEngine_ResolveFailureSpawnsNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner()
	e := NewEngine(runner, nil)
	boom := errors.New("No valid command returned by AI")

	e.Dispatch(Job{
		Input: "do the thing",
		Resolve: func(context.Context) (router.Command, error) {
			return router.Command{}, boom
		},
	})

	got := pollUntil(t, e, 1)
	assert.ErrorIs(t, got[0].Err, boom)
	assert.Empty(t, got[0].Command)
	assert.Empty(t, runner.commands())
}

func TestEngine_BuiltinsAreNotSpawned(t *testing.T) {
	defer goleak.VerifyNone(t)

	runner := newGatedRunner()
	e := NewEngine(runner, nil)

	e.Dispatch(Job{Input: "clear", Command: " clear "})
	e.Dispatch(Job{
		Input: "go home",
		Resolve: func(context.Context) (router.Command, error) {
			return router.Command{Kind: router.KindChangeDirectory, Text: "~"}, nil
		},
	})

	got := pollUntil(t, e, 2)
	kinds := map[router.Kind]bool{}
	for _, r := range got {
		require.NotNil(t, r.Builtin)
		assert.NoError(t, r.Err)
		kinds[r.Builtin.Kind] = true
	}
	assert.True(t, kinds[router.KindClear])
	assert.True(t, kinds[router.KindChangeDirectory])
	assert.Empty(t, runner.commands())
}

func TestEngine_PanicStillDeliversOneResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEngine(newGatedRunner(), nil)
	e.Dispatch(Job{
		Input: "x",
		Resolve: func(context.Context) (router.Command, error) {
			panic("delegate exploded")
		},
	})

	got := pollUntil(t, e, 1)
	require.Error(t, got[0].Err)
	assert.Contains(t, got[0].Err.Error(), "delegate exploded")
}

func TestEngine_RealShell(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := NewEngine(NewExecutor(), nil)
	e.Dispatch(Job{Input: "slow", Command: "sleep 0.3; echo slow"})
	e.Dispatch(Job{Input: "fast", Command: "echo fast"})

	got := pollUntil(t, e, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "fast\n", got[0].Output)
	assert.Equal(t, "slow\n", got[1].Output)
}
