// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package installer installs the AWS CLI when it is absent from PATH. The
// installer is a capability looked up by platform tag; platforms without
// one get an explicit error instead of a silent fallthrough.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/statkit/dsctl/internal/execx"
	"github.com/statkit/dsctl/internal/status"
)

// ErrUnsupportedPlatform is returned when no installer exists for the
// host platform.
var ErrUnsupportedPlatform = errors.New("no AWS CLI installer for this platform")

// Step is one external invocation of an installer sequence.
type Step struct {
	Name string
	Args []string
}

// Installer is the fixed install sequence for one platform.
type Installer struct {
	Platform string
	Steps    []Step
}

var installers = map[string]Installer{
	"linux": {
		Platform: "linux",
		Steps: []Step{
			{Name: "curl", Args: []string{"-fsSL", "-o", "/tmp/awscliv2.zip", "https://awscli.amazonaws.com/awscli-exe-linux-x86_64.zip"}},
			{Name: "unzip", Args: []string{"-o", "-q", "/tmp/awscliv2.zip", "-d", "/tmp"}},
			{Name: "sudo", Args: []string{"/tmp/aws/install", "--update"}},
		},
	},
	"darwin": {
		Platform: "darwin",
		Steps: []Step{
			{Name: "brew", Args: []string{"install", "awscli"}},
		},
	},
}

// For returns the installer registered for the given platform tag
// (runtime.GOOS values).
func For(platform string) (Installer, error) {
	inst, ok := installers[platform]
	if !ok {
		return Installer{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
	return inst, nil
}

// Run executes the install sequence in order, stopping at the first
// failure.
func (i Installer) Run(ctx context.Context, dir string) error {
	for _, step := range i.Steps {
		res := execx.Run(ctx, dir, step.Name, step.Args...)
		if res.Code != 0 {
			return &execx.ExitError{Code: res.Code, Cmd: step.Name}
		}
	}
	return nil
}

// EnsureAWSCLI installs the AWS CLI unless it is already on PATH. It
// reports whether an install ran.
func EnsureAWSCLI(ctx context.Context, platform string, dir string) (bool, error) {
	if path, err := execx.LookPath("aws"); err == nil {
		status.Skip("AWS CLI already installed at %s", path)
		return false, nil
	}

	inst, err := For(platform)
	if err != nil {
		return false, err
	}

	status.Step("Installing AWS CLI (%s)...", inst.Platform)
	if err := inst.Run(ctx, dir); err != nil {
		return false, err
	}
	return true, nil
}
