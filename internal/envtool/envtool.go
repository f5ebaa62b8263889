// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package envtool introspects the project's Python virtual environment via
// the package manager.
package envtool

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/statkit/dsctl/internal/execx"
)

// Info describes the active (or configured) virtual environment.
type Info struct {
	Path          string `json:"path" yaml:"path"`
	Executable    string `json:"executable" yaml:"executable"`
	PythonVersion string `json:"python_version" yaml:"python_version"`
	Valid         bool   `json:"valid" yaml:"valid"`
	Activated     bool   `json:"activated" yaml:"activated"`
}

// Inspect asks the package manager for env info and parses the JSON
// payload. Activated reflects VIRTUAL_ENV in the caller's environment.
func Inspect(ctx context.Context, dir string) (Info, error) {
	out, res := execx.Capture(ctx, dir, "poetry", "env", "info", "--json")
	if res.Code != 0 {
		return Info{}, fmt.Errorf("poetry env info failed: %w", &execx.ExitError{Code: res.Code, Cmd: "poetry"})
	}

	info := Info{
		Path:          gjson.Get(out, "path").String(),
		Executable:    gjson.Get(out, "executable").String(),
		PythonVersion: gjson.Get(out, "python_version").String(),
		Valid:         gjson.Get(out, "valid").Bool(),
		Activated:     os.Getenv("VIRTUAL_ENV") != "",
	}
	return info, nil
}

// ActivateHint returns the shell line a user sources to enter the venv.
// A child process cannot mutate the parent shell, so activation is always
// a printed instruction.
func ActivateHint(info Info) string {
	if info.Path == "" {
		return "run `dsctl setup` first, then `poetry shell` or source <venv>/bin/activate"
	}
	return fmt.Sprintf("source %s/bin/activate", info.Path)
}

// DeactivateHint mirrors ActivateHint for leaving the venv.
func DeactivateHint() string {
	return "run `deactivate` in the shell where the environment is active"
}
