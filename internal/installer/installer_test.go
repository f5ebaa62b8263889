// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package installer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statkit/dsctl/internal/execx"
)

type fakeInvoker struct {
	runs     [][]string
	code     int
	failAt   int
	lookPath map[string]string
}

func (f *fakeInvoker) Run(ctx context.Context, dir string, name string, args ...string) execx.Result {
	f.runs = append(f.runs, append([]string{name}, args...))
	if f.failAt > 0 && len(f.runs) == f.failAt {
		return execx.Result{Code: f.code}
	}
	return execx.Result{Code: 0}
}

func (f *fakeInvoker) Capture(ctx context.Context, dir string, name string, args ...string) (string, execx.Result) {
	return "", execx.Result{Code: 0}
}

func (f *fakeInvoker) LookPath(name string) (string, error) {
	if p, ok := f.lookPath[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func TestFor_UnsupportedPlatform(t *testing.T) {
	_, err := For("windows")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = For("plan9")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestEnsureAWSCLI_AlreadyInstalled(t *testing.T) {
	fake := &fakeInvoker{lookPath: map[string]string{"aws": "/usr/local/bin/aws"}}
	restore := execx.Swap(fake)
	defer restore()

	installed, err := EnsureAWSCLI(context.Background(), "linux", "")
	assert.NoError(t, err)
	assert.False(t, installed)
	assert.Empty(t, fake.runs, "no installer step may run when aws is on PATH")
}

func TestEnsureAWSCLI_Linux(t *testing.T) {
	fake := &fakeInvoker{}
	restore := execx.Swap(fake)
	defer restore()

	installed, err := EnsureAWSCLI(context.Background(), "linux", "")
	assert.NoError(t, err)
	assert.True(t, installed)

	assert.Len(t, fake.runs, 3)
	assert.Equal(t, "curl", fake.runs[0][0])
	assert.Equal(t, "unzip", fake.runs[1][0])
	assert.Equal(t, []string{"sudo", "/tmp/aws/install", "--update"}, fake.runs[2])
}

func TestEnsureAWSCLI_Darwin(t *testing.T) {
	fake := &fakeInvoker{}
	restore := execx.Swap(fake)
	defer restore()

	installed, err := EnsureAWSCLI(context.Background(), "darwin", "")
	assert.NoError(t, err)
	assert.True(t, installed)
	assert.Equal(t, [][]string{{"brew", "install", "awscli"}}, fake.runs)
}

func TestEnsureAWSCLI_Unsupported(t *testing.T) {
	fake := &fakeInvoker{}
	restore := execx.Swap(fake)
	defer restore()

	_, err := EnsureAWSCLI(context.Background(), "windows", "")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Empty(t, fake.runs)
}

func TestInstallerRun_StopsAtFirstFailure(t *testing.T) {
	fake := &fakeInvoker{code: 7, failAt: 2}
	restore := execx.Swap(fake)
	defer restore()

	inst, err := For("linux")
	assert.NoError(t, err)

	err = inst.Run(context.Background(), "")
	var ee *execx.ExitError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, 7, ee.Code)
	assert.Equal(t, "unzip", ee.Cmd)
	assert.Len(t, fake.runs, 2, "third step must not run after a failure")
}
