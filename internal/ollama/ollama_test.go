// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != "user" {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}

	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}
}

func TestNewSystemMessage(t *testing.T) {
	msg := NewSystemMessage("Reply with one command")

	if msg.Role != "system" {
		t.Errorf("Role = %q, want 'system'", msg.Role)
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example:11434/"})

	cfg := c.GetConfig()
	if cfg.BaseURL != "http://example:11434" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.DefaultModel == "" {
		t.Error("DefaultModel should be filled in")
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("Stream should be false")
		}
		if req.Model != "test-model" {
			t.Errorf("Model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[1].Content != "list files" {
			t.Errorf("Messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Model:   req.Model,
			Message: Message{Role: "assistant", Content: "```bash\nls\n```"},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	resp, err := c.Chat(context.Background(), "test-model", []Message{
		NewSystemMessage("system"),
		NewUserMessage("list files"),
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message.Content != "```bash\nls\n```" {
		t.Errorf("Content = %q", resp.Message.Content)
	}
}

func TestChat_DefaultModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		json.NewEncoder(w).Encode(ChatResponse{Done: true})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, DefaultModel: "fallback"})
	if _, err := c.Chat(context.Background(), "", nil); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if gotModel != "fallback" {
		t.Errorf("model = %q, want fallback", gotModel)
	}
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{"model_not_found", http.StatusNotFound, "", IsModelNotFound, ""},
		{"api_error_body", http.StatusInternalServerError, `{"error":"out of memory"}`, nil, "out of memory"},
		{"bad_status", http.StatusBadGateway, "nope", nil, "chat request failed: 502 Bad Gateway"},
		{"bad_json", http.StatusOK, "{", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
			_, err := c.Chat(context.Background(), "m", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.check != nil && !tt.check(err) {
				t.Errorf("unexpected error kind: %v", err)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestChat_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := c.Chat(context.Background(), "m", nil)
	if !IsNotRunning(err) {
		t.Errorf("error = %v, want not running", err)
	}
	if err := c.CheckRunning(context.Background()); !IsNotRunning(err) {
		t.Errorf("CheckRunning() = %v, want not running", err)
	}
}

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	if err := c.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning() error = %v", err)
	}
}

func TestClientError_Is(t *testing.T) {
	if IsTimeout(ErrNotRunning) {
		t.Error("ErrNotRunning should not be a timeout")
	}
	wrapped := &ClientError{Type: ErrTypeTimeout, Message: "slow"}
	if !IsTimeout(wrapped) {
		t.Error("typed timeout should match ErrTimeout")
	}
}
