package run

import "time"

// Action is a single effectful unit: run a command, write a file, or call a
// network endpoint. Commands are always a program plus an argument list,
// never a shell-interpolated string, so nothing a user types can be
// reinterpreted by a shell.
//
// Exactly one of Program or Fn is set. Fn covers actions that are not a
// plain subprocess (file writes, network calls, interactive composites);
// it receives the run context so it can route its own sub-commands back
// through the Executor.
type Action struct {
	Desc    string        // human-readable description, used in logs
	Program string        // executable to run (argv[0])
	Args    []string      // remaining argv
	Timeout time.Duration // bound for long-running commands; zero means none
	Fn      func(c *Context) error
}

// Command builds a subprocess action.
func Command(desc, program string, args ...string) Action {
	return Action{Desc: desc, Program: program, Args: args}
}

// CommandTimeout builds a subprocess action with a completion deadline.
func CommandTimeout(desc string, timeout time.Duration, program string, args ...string) Action {
	return Action{Desc: desc, Program: program, Args: args, Timeout: timeout}
}

// Do builds an in-process action.
func Do(desc string, fn func(c *Context) error) Action {
	return Action{Desc: desc, Fn: fn}
}
