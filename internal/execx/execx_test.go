// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package execx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingInvoker struct {
	runs [][]string
	code int
}

func (r *recordingInvoker) Run(ctx context.Context, dir string, name string, args ...string) Result {
	r.runs = append(r.runs, append([]string{name}, args...))
	return Result{Code: r.code}
}

func (r *recordingInvoker) Capture(ctx context.Context, dir string, name string, args ...string) (string, Result) {
	r.runs = append(r.runs, append([]string{name}, args...))
	return "", Result{Code: r.code}
}

func (r *recordingInvoker) LookPath(name string) (string, error) {
	return "", errors.New("not found")
}

func TestSwapRestores(t *testing.T) {
	fake := &recordingInvoker{}
	restore := Swap(fake)

	Run(context.Background(), "", "poetry", "install")
	assert.Equal(t, [][]string{{"poetry", "install"}}, fake.runs)

	restore()

	// After restore the fake no longer records.
	_, err := LookPath("definitely-not-a-real-tool-9f2c")
	assert.Error(t, err)
	assert.Len(t, fake.runs, 1)
}

func TestExitError_Error(t *testing.T) {
	err := &ExitError{Code: 3, Cmd: "pytest"}
	assert.Equal(t, "pytest exited with code 3", err.Error())

	wrapped := fmt.Errorf("tests failed: %w", err)
	var ee *ExitError
	assert.True(t, errors.As(wrapped, &ee))
	assert.Equal(t, 3, ee.Code)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(context.Background(), nil))
	assert.Equal(t, 1, exitCode(context.Background(), errors.New("spawn failed")))

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	assert.Equal(t, 124, exitCode(ctx, errors.New("killed")))
}
