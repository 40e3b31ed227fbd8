// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package delegate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Invoker translates text into a shell command.
type Invoker interface {
	Invoke(ctx context.Context, text string) (string, error)
}

// Response is the structured reply of a translator.
type Response struct {
	Input   string  `json:"input"`
	Command *string `json:"command,omitempty"`
	Error   *string `json:"error,omitempty"`
}

// Success builds a response carrying a command.
func Success(input, command string) Response {
	return Response{Input: input, Command: &command}
}

// Failure builds a response carrying an error message.
func Failure(input, message string) Response {
	return Response{Input: input, Error: &message}
}

// CommandText returns the command, or the error the response stands for.
// A populated error field wins over a command.
func (r Response) CommandText() (string, error) {
	if r.Error != nil && strings.TrimSpace(*r.Error) != "" {
		return "", &Error{Kind: KindServiceError, Detail: *r.Error}
	}
	if r.Command == nil || strings.TrimSpace(*r.Command) == "" {
		return "", &Error{Kind: KindEmptyCommand}
	}
	return strings.TrimSpace(*r.Command), nil
}

// ParseResponse decodes a translator reply and returns its command.
func ParseResponse(raw []byte) (string, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &Error{
			Kind:   KindMalformedResponse,
			Detail: err.Error(),
			Raw:    string(raw),
			Cause:  err,
		}
	}
	return resp.CommandText()
}

// =============================================================================
// REPLY EXTRACTION
// =============================================================================

// Errors raised while reading a model reply. They are reported to the user
// as "Invalid response: ..." through the response error field.
var (
	errNoCodeBlock      = errors.New("No bash code block found in API response")
	errBadCodeBlock     = errors.New("Invalid bash code block format")
	errEmptyFromService = errors.New("Empty command returned by the API")
)

// PromptTemplate prefixes the instruction sent to a completion service.
const PromptTemplate = "Convert this instruction to a single bash command: "

// extractCodeBlock returns the body of the first fenced block whose info
// string is one of langs ("" matches a bare fence).
func extractCodeBlock(text string, langs ...string) (string, error) {
	const endMarker = "\n```"
	for _, lang := range langs {
		startMarker := "```" + lang + "\n"
		start := strings.Index(text, startMarker)
		if start == -1 {
			continue
		}
		start += len(startMarker)
		end := strings.Index(text[start:], endMarker)
		if end == -1 {
			return "", errBadCodeBlock
		}
		return strings.TrimSpace(text[start : start+end]), nil
	}
	return "", errNoCodeBlock
}

// finishCommand applies the placeholder substitution and rejects empty commands.
func finishCommand(command, input string) (string, error) {
	if strings.Contains(command, "folder_name") {
		command = strings.ReplaceAll(command, "folder_name", folderName(input))
	}
	if command == "" {
		return "", errEmptyFromService
	}
	return command, nil
}

// folderName derives a directory name from an instruction:
// "create a project folder" -> "project_folder".
func folderName(input string) string {
	name := strings.ToLower(input)
	name = strings.ReplaceAll(name, "create a", "")
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "folder"
	}
	return name
}
