// terminalAI - a shell that also understands plain English.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/nitindahiya-dev/terminalAI/internal/cli"
)

// Version information (set at build time)
var Version = "0.1.0"

func init() {
	cli.Version = Version
}

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}
