// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package execx is the process-invocation boundary. Every external tool
// dsctl wraps is started through the package-level Invoker, which tests
// replace to assert dispatch without spawning processes.
package execx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
)

// Result carries the exit code and raw error of a finished invocation.
type Result struct {
	Code int
	Err  error
}

// ExitError surfaces a wrapped tool's non-zero exit status unmodified to
// the dsctl process exit code.
type ExitError struct {
	Code int
	Cmd  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
}

// Invoker starts external processes. The system implementation streams
// stdio; fakes record argv instead.
type Invoker interface {
	Run(ctx context.Context, dir string, name string, args ...string) Result
	Capture(ctx context.Context, dir string, name string, args ...string) (string, Result)
	LookPath(name string) (string, error)
}

var invoker Invoker = systemInvoker{}

// Swap replaces the active Invoker and returns a restore func. Test use.
func Swap(inv Invoker) (restore func()) {
	prev := invoker
	invoker = inv
	return func() { invoker = prev }
}

// Run executes name with args in dir, streaming stdio to the terminal.
func Run(ctx context.Context, dir string, name string, args ...string) Result {
	return invoker.Run(ctx, dir, name, args...)
}

// Capture executes name with args in dir and returns stdout.
func Capture(ctx context.Context, dir string, name string, args ...string) (string, Result) {
	return invoker.Capture(ctx, dir, name, args...)
}

// LookPath reports where name resolves on PATH.
func LookPath(name string) (string, error) {
	return invoker.LookPath(name)
}

type systemInvoker struct{}

func (systemInvoker) Run(ctx context.Context, dir string, name string, args ...string) Result {
	log.Debugf("+ %s", strings.Join(append([]string{name}, args...), " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	return Result{Code: exitCode(ctx, err), Err: err}
}

func (systemInvoker) Capture(ctx context.Context, dir string, name string, args ...string) (string, Result) {
	log.Debugf("+ %s", strings.Join(append([]string{name}, args...), " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), Result{Code: exitCode(ctx, err), Err: err}
}

func (systemInvoker) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func exitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	if ctx.Err() == context.DeadlineExceeded {
		return 124
	}
	return 1
}
