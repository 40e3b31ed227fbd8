// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import (
	"errors"
	"testing"
)

// =============================================================================
// LOCALHOST DETECTION
// =============================================================================

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host   string
		expect bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"127.0.0.1:8080", true},
		{"127.1.2.3", true},
		{"::1", true},
		{"[::1]", true},
		{"[::1]:8080", true},

		{"google.com", false},
		{"192.168.1.1", false},
		{"10.0.0.1:5500", false},
		{"0.0.0.0", false},
		{"", false},
		{"localhost.localdomain", false},
	}

	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := IsLocalhost(tc.host); got != tc.expect {
				t.Errorf("IsLocalhost(%q) = %v, want %v", tc.host, got, tc.expect)
			}
		})
	}
}

// =============================================================================
// URL VALIDATION
// =============================================================================

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		offline bool
		want    error
	}{
		{"http://127.0.0.1:5500/", false, nil},
		{"http://127.0.0.1:5500/", true, nil},
		{"https://localhost:11434", true, nil},
		{"https://api.example.com", false, nil},
		{"https://api.example.com", true, ErrNonLocalhost},

		{"file:///etc/passwd", false, ErrInvalidURLScheme},
		{"javascript:alert(1)", false, ErrInvalidURLScheme},
		{"ftp://localhost/", true, ErrInvalidURLScheme},
		{"http://", false, ErrInvalidURL},
		{"http://[::1", false, ErrInvalidURL},

		{"http://localhost.evil.com:11434", true, ErrNonLocalhost},
		{"http://127.0.0.1.evil.com", true, ErrNonLocalhost},
		{"http://evil.com#localhost", true, ErrNonLocalhost},
		{"http://evil.com?host=localhost", true, ErrNonLocalhost},
		{"http://localhost@evil.com", true, ErrNonLocalhost},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			err := ValidateURL(tc.url, tc.offline)
			if !errors.Is(err, tc.want) {
				t.Errorf("ValidateURL(%q, %v) = %v, want %v", tc.url, tc.offline, err, tc.want)
			}
		})
	}
}

func TestCheckClient(t *testing.T) {
	if err := CheckClient("127.0.0.1:52311"); err != nil {
		t.Errorf("loopback client rejected: %v", err)
	}
	if err := CheckClient("[::1]:52311"); err != nil {
		t.Errorf("IPv6 loopback client rejected: %v", err)
	}
	if err := CheckClient("203.0.113.9:443"); !errors.Is(err, ErrNonLocalhost) {
		t.Errorf("remote client accepted: %v", err)
	}
}
