// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with the Ollama API.
//
// Only the non-streaming chat endpoint and the health check are used: the
// delegate backend asks a local model to turn one instruction into one
// command and reads the whole reply.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - Message: chat message with role and content
//   - ChatRequest / ChatResponse: /api/chat payloads
//   - ClientError: typed error with ErrorType for handling
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url})
//	resp, err := client.Chat(ctx, "qwen2.5-coder:7b", []ollama.Message{
//	    ollama.NewSystemMessage(prompt),
//	    ollama.NewUserMessage(text),
//	})
package ollama
