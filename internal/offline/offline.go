// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package offline keeps translation traffic on the local machine.
//
// With delegate.offline set, every delegate endpoint must be a loopback
// address, and `terminalai serve` refuses clients that are not local.
package offline

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNonLocalhost is returned for a non-loopback host in offline mode.
	ErrNonLocalhost = errors.New("only localhost/127.0.0.1 connections allowed in offline mode")

	// ErrInvalidURLScheme is returned when a URL scheme is not http or https.
	ErrInvalidURLScheme = errors.New("only http and https schemes are allowed")

	// ErrInvalidURL is returned when a URL cannot be parsed or has no host.
	ErrInvalidURL = errors.New("invalid URL")
)

// =============================================================================
// VALIDATION
// =============================================================================

// IsLocalhost reports whether host (optionally with a port) is a loopback
// name or address. Accepts "localhost", the whole 127.0.0.0/8 range and
// every spelling of ::1.
func IsLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// ValidateURL checks that rawURL is an http(s) URL with a host. When
// offline is set the host must also be loopback.
func ValidateURL(rawURL string, offline bool) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidURL
	}

	// The scheme is checked even online; file:// and friends never make sense here.
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrInvalidURLScheme
	}
	if parsed.Host == "" {
		return ErrInvalidURL
	}

	if offline && !IsLocalhost(parsed.Hostname()) {
		return ErrNonLocalhost
	}
	return nil
}

// CheckClient returns ErrNonLocalhost unless remoteAddr (as found in
// http.Request.RemoteAddr) is a loopback address.
func CheckClient(remoteAddr string) error {
	if IsLocalhost(remoteAddr) {
		return nil
	}
	return ErrNonLocalhost
}
