// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"context"
	"errors"
	"testing"
)

// TestClassify tests the line classification rules and their order.
func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Command
	}{
		// Built-ins
		{
			name:     "clear",
			line:     "clear",
			expected: Command{Kind: KindClear},
		},
		{
			name:     "clear_with_spaces",
			line:     "  clear  ",
			expected: Command{Kind: KindClear},
		},
		{
			name:     "cd_absolute",
			line:     "cd /tmp",
			expected: Command{Kind: KindChangeDirectory, Text: "/tmp"},
		},
		{
			name:     "cd_trims_path",
			line:     "cd    src/app   ",
			expected: Command{Kind: KindChangeDirectory, Text: "src/app"},
		},
		{
			name:     "bare_cd",
			line:     "cd",
			expected: Command{Kind: KindChangeDirectory, Text: ""},
		},
		{
			name:     "exit",
			line:     "exit",
			expected: Command{Kind: KindExit},
		},
		{
			name:     "quit",
			line:     "quit",
			expected: Command{Kind: KindExit},
		},

		// Literal shell commands
		{
			name:     "ls_with_flags",
			line:     "ls -la",
			expected: Command{Kind: KindShell, Text: "ls -la"},
		},
		{
			name:     "known_first_word",
			line:     "grep -r TODO .",
			expected: Command{Kind: KindShell, Text: "grep -r TODO ."},
		},
		{
			name:     "clear_with_args_is_shell",
			line:     "clear -x",
			expected: Command{Kind: KindShell, Text: "clear -x"},
		},
		{
			name:     "pipe",
			line:     "git log | head",
			expected: Command{Kind: KindShell, Text: "git log | head"},
		},
		{
			name:     "assignment",
			line:     "FOO=bar env",
			expected: Command{Kind: KindShell, Text: "FOO=bar env"},
		},
		{
			name:     "redirect",
			line:     "date > now.txt",
			expected: Command{Kind: KindShell, Text: "date > now.txt"},
		},
		{
			name:     "sentence_with_redirect_char_goes_to_shell",
			line:     "show files > 1MB",
			expected: Command{Kind: KindShell, Text: "show files > 1MB"},
		},

		// Natural language
		{
			name:     "natural_language",
			line:     "show me big files",
			expected: Command{Kind: KindDelegate, Text: "show me big files"},
		},
		{
			name:     "exit_with_args_is_delegated",
			line:     "exit now please",
			expected: Command{Kind: KindDelegate, Text: "exit now please"},
		},
		{
			name:     "cd_prefix_without_space",
			line:     "cdrom status",
			expected: Command{Kind: KindDelegate, Text: "cdrom status"},
		},
		{
			name:     "unknown_utility",
			line:     "git status",
			expected: Command{Kind: KindDelegate, Text: "git status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.expected)
			}
		})
	}
}

// TestClassifier_KnownCommands tests a custom allow-list.
func TestClassifier_KnownCommands(t *testing.T) {
	c := New([]string{"git", " docker ", ""})

	if got := c.Classify("git status"); got.Kind != KindShell {
		t.Errorf("git status = %v, want Shell", got)
	}
	if got := c.Classify("docker ps"); got.Kind != KindShell {
		t.Errorf("docker ps = %v, want Shell", got)
	}
	if got := c.Classify("ls"); got.Kind != KindDelegate {
		t.Errorf("ls with custom list = %v, want Delegate", got)
	}
	// Built-ins do not depend on the allow-list.
	if got := c.Classify("cd /"); got.Kind != KindChangeDirectory {
		t.Errorf("cd / = %v, want ChangeDirectory", got)
	}

	want := []string{"docker", "git"}
	got := c.KnownCommands()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("KnownCommands() = %v, want %v", got, want)
	}

	c.SetKnownCommands(nil)
	if got := c.Classify("ls"); got.Kind != KindShell {
		t.Errorf("ls after reset = %v, want Shell", got)
	}
}

// TestClassifier_Resolve tests translation of delegated lines.
func TestClassifier_Resolve(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		translated string
		expected   Command
	}{
		{"shell_command", "du -sh * | sort -h", Command{Kind: KindShell, Text: "du -sh * | sort -h"}},
		{"unknown_utility_still_shell", "git status", Command{Kind: KindShell, Text: "git status"}},
		{"change_directory", "cd ~/projects", Command{Kind: KindChangeDirectory, Text: "~/projects"}},
		{"clear", " clear\n", Command{Kind: KindClear}},
		{"exit_is_not_builtin", "exit", Command{Kind: KindShell, Text: "exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			d := DelegateFunc(func(_ context.Context, text string) (string, error) {
				calls++
				if text != "show me big files" {
					t.Errorf("delegate got %q", text)
				}
				return tt.translated, nil
			})

			got, err := c.Resolve(ctx, Command{Kind: KindDelegate, Text: "show me big files"}, d)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Resolve() = %v, want %v", got, tt.expected)
			}
			if calls != 1 {
				t.Errorf("delegate called %d times, want 1", calls)
			}
		})
	}
}

// TestClassifier_ResolveNoRetry tests that a failing delegate is called once.
func TestClassifier_ResolveNoRetry(t *testing.T) {
	c := New(nil)
	boom := errors.New("boom")
	calls := 0
	d := DelegateFunc(func(context.Context, string) (string, error) {
		calls++
		return "", boom
	})

	_, err := c.Resolve(context.Background(), Command{Kind: KindDelegate, Text: "x"}, d)
	if !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("delegate called %d times, want 1", calls)
	}
}

// TestClassifier_ResolvePassThrough tests that non-delegated commands skip the delegate.
func TestClassifier_ResolvePassThrough(t *testing.T) {
	c := New(nil)
	cmd := Command{Kind: KindShell, Text: "ls"}
	got, err := c.Resolve(context.Background(), cmd, nil)
	if err != nil || got != cmd {
		t.Errorf("Resolve() = %v, %v; want %v, nil", got, err, cmd)
	}

	_, err = c.Resolve(context.Background(), Command{Kind: KindDelegate, Text: "x"}, nil)
	if !errors.Is(err, ErrNoDelegate) {
		t.Errorf("Resolve() without delegate error = %v, want ErrNoDelegate", err)
	}
}

// TestKind_String tests kind names.
func TestKind_String(t *testing.T) {
	if KindShell.String() != "Shell" || Kind(42).String() != "Kind(42)" {
		t.Errorf("unexpected kind names: %s %s", KindShell, Kind(42))
	}
	if !KindClear.IsBuiltin() || KindShell.IsBuiltin() {
		t.Error("IsBuiltin mismatch")
	}
}
