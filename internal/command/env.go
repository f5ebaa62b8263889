// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/envtool"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/output"
	"github.com/statkit/dsctl/internal/status"
)

// CheckVenvCommandAction reports the state of the project's virtual
// environment in the requested output format.
func CheckVenvCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "check-venv") {
		return nil
	}
	applyCommonFlags(cmd)

	info, err := envtool.Inspect(ctx, RootDir(cmd))
	if err != nil {
		return err
	}

	if format := cmd.String("output"); format != "text" {
		return output.Emit(os.Stdout, format, info)
	}

	if info.Activated {
		status.Step("virtual environment active: %s (python %s)", info.Path, info.PythonVersion)
	} else {
		status.Step("virtual environment configured but not active: %s", info.Path)
		status.Hint("%s", envtool.ActivateHint(info))
	}
	return nil
}

func CheckVenvCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "check-venv",
		Usage:     "show the state of the project virtual environment",
		UsageText: "dsctl check-venv [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  append([]cli.Flag{tldrFlag}, NewGlobalFlags("check-venv")...),
		Action: CheckVenvCommandAction,
	}
}

// ActivateEnvCommandBuilder prints the activation line. A child process
// cannot mutate the parent shell, so this is guidance rather than action.
func ActivateEnvCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "activate-env",
		Usage:     "print how to activate the virtual environment",
		UsageText: "dsctl activate-env [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags("activate-env")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if ShortCircuitTLDR(ctx, cmd, "activate-env") {
				return nil
			}
			applyCommonFlags(cmd)

			info, err := envtool.Inspect(ctx, RootDir(cmd))
			if err != nil {
				// No env yet still deserves actionable guidance.
				status.Hint("%s", envtool.ActivateHint(envtool.Info{}))
				return nil
			}
			status.Hint("%s", envtool.ActivateHint(info))
			return nil
		},
	}
}

func DeactivateEnvCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "deactivate-env",
		Usage:     "print how to deactivate the virtual environment",
		UsageText: "dsctl deactivate-env [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags("deactivate-env")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if ShortCircuitTLDR(ctx, cmd, "deactivate-env") {
				return nil
			}
			applyCommonFlags(cmd)
			status.Hint("%s", envtool.DeactivateHint())
			return nil
		},
	}
}

func PythonVersionCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "python-version",
		Usage:  "show the interpreter version inside the virtual environment",
		Status: "",
		Tool:   "poetry",
		Args:   []string{"run", "python", "--version"},
		Meta:   m,
	}
	return tcb.Build()
}

func JupyterCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "jupyter",
		Usage:  "start a notebook server inside the virtual environment",
		Status: "Starting Jupyter...",
		Tool:   "poetry",
		Args:   []string{"run", "jupyter", "notebook"},
		Meta:   m,
	}
	return tcb.Build()
}
