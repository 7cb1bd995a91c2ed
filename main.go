package main

import (
	"devstation/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// This design cleanly separates the CLI interface (cmd package) from main,
// allowing easier testing, extension, and reuse of the CLI commands.
//
// The devstation project provisions and de-provisions a developer workstation:
//   - `devstation setup` walks an ordered pipeline of provisioning stages
//     (prerequisites, identity and credentials, shell configuration, language
//     runtimes, applications, system settings), skipping any stage whose goal
//     state already holds on the machine
//   - `devstation setup --dry-run` simulates the same pipeline, logging every
//     action that would be performed without touching the system
//   - `devstation teardown` walks the mirrored removal pipeline in reverse
//     dependency order, asking for confirmation per category; `--force`
//     auto-confirms everything for unattended removal
//
// Error handling strategy:
//   - Every effectful operation passes through a single executor so that
//     failures are logged uniformly and dry-run behavior is correct by
//     construction
//   - Fatal stage failures route through a cleanup handler (also wired to
//     SIGINT/SIGTERM) that releases transient resources before exiting
//     with a non-zero status
//
// Integration points:
//   - The package manager, version-control tool, and runtime version manager
//     on the host are external collaborators, queried only through existence
//     checks and invoked with structured argument lists (never shell strings)
//   - A timestamped append-only log file records every run under ~/.devstation
func main() {
	cmd.Execute()
}
