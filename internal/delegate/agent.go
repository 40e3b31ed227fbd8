// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAgentURL is the completion endpoint queried by Agent.
const DefaultAgentURL = "http://127.0.0.1:5500/"

// maxReplyBytes bounds how much of a reply is read.
const maxReplyBytes = 1 << 20

// Agent asks an HTTP completion service for a command. The service takes the
// prompt as the "text" query parameter and answers with prose containing a
// fenced bash block.
type Agent struct {
	BaseURL string
	Client  *http.Client
}

// NewAgent creates an HTTP backend. Zero values select DefaultAgentURL and a
// 10 second timeout.
func NewAgent(baseURL string, timeout time.Duration) *Agent {
	if baseURL == "" {
		baseURL = DefaultAgentURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Agent{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Invoke translates text and returns the command.
func (a *Agent) Invoke(ctx context.Context, text string) (string, error) {
	return a.Translate(ctx, text).CommandText()
}

// Translate queries the service and reports the outcome as a Response;
// failures land in the error field.
func (a *Agent) Translate(ctx context.Context, input string) Response {
	reply, err := a.fetch(ctx, PromptTemplate+input)
	if err != nil {
		return Failure(input, "API request failed: "+err.Error())
	}

	command, err := extractCodeBlock(strings.TrimSpace(reply), "bash")
	if err == nil {
		command, err = finishCommand(command, input)
	}
	if err != nil {
		return Failure(input, "Invalid response: "+err.Error())
	}
	return Success(input, command)
}

func (a *Agent) fetch(ctx context.Context, prompt string) (string, error) {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", a.BaseURL, err)
	}
	q := u.Query()
	q.Set("text", prompt)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s for url: %s", resp.Status, u.Redacted())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
