// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"strings"

	"github.com/nitindahiya-dev/terminalAI/internal/ollama"
)

// ollamaSystemPrompt keeps local models to a single fenced command.
const ollamaSystemPrompt = "You translate instructions into shell commands. " +
	"Answer with exactly one bash command inside a ```bash fenced block and nothing else."

// Ollama asks a local Ollama model for a command.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates an Ollama backend. An empty model uses the client default.
func NewOllama(client *ollama.Client, model string) *Ollama {
	return &Ollama{client: client, model: model}
}

// Invoke translates text and returns the command.
func (o *Ollama) Invoke(ctx context.Context, text string) (string, error) {
	return o.Translate(ctx, text).CommandText()
}

// Translate queries the model and reports the outcome as a Response.
func (o *Ollama) Translate(ctx context.Context, input string) Response {
	resp, err := o.client.ChatWithOptions(ctx, o.model, []ollama.Message{
		ollama.NewSystemMessage(ollamaSystemPrompt),
		ollama.NewUserMessage(PromptTemplate + input),
	}, &ollama.Options{Temperature: 0.1})
	if err != nil {
		return Failure(input, "API request failed: "+err.Error())
	}

	reply := strings.TrimSpace(resp.Message.Content)
	command, err := extractCodeBlock(reply, "bash", "sh", "shell", "")
	if err == errNoCodeBlock && reply != "" && !strings.Contains(reply, "\n") {
		// Small models often skip the fence for one-liners.
		command, err = strings.Trim(reply, "`"), nil
	}
	if err == nil {
		command, err = finishCommand(command, input)
	}
	if err != nil {
		return Failure(input, "Invalid response: "+err.Error())
	}
	return Success(input, command)
}
