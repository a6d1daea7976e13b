// Package cmd provides helpers for executing external commands with proper error handling.
//
// This package wraps [os/exec.Cmd] to capture stderr and include it in error
// messages, making command failures more informative for users. Commands are
// echoed (with duration) when verbose logging is enabled.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoRoot, "git", "add", "-A"); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("git failed: %w", err)
//	}
//
//	// For commands that return output:
//	out, err := cmd.OutputContext(ctx, repoRoot, "git", "diff", "--name-only")
//	if err != nil {
//	    // err contains stderr output
//	}
//
// # Design Notes
//
// hk shells out to the git CLI rather than using a Go git library.
// This is simpler, more reliable, and ensures compatibility with user
// configurations (hooksPath, credential helpers, includes, etc.). Hook
// entries themselves are executed by the runner package, which manages
// its own exec.Cmd instances to control stdio and environment.
package cmd
