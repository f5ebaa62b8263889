// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/execx"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/status"
)

func SetupCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "setup",
		Usage:  "install project dependencies and create the virtual environment",
		Status: "Setting up the project environment...",
		Tool:   "poetry",
		Args:   []string{"install"},
		Meta:   m,
	}
	return tcb.Build()
}

func UpdateDepsCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "update-deps",
		Usage:  "update project dependencies to their latest allowed versions",
		Status: "Updating dependencies...",
		Tool:   "poetry",
		Args:   []string{"update"},
		Meta:   m,
	}
	return tcb.Build()
}

func BuildCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "build",
		Usage:  "build source and wheel distributions",
		Status: "Building distributions...",
		Tool:   "poetry",
		Args:   []string{"build"},
		Meta:   m,
	}
	return tcb.Build()
}

// PublishCommandBuilder registers the publish command in a disabled state.
// The registry URL stays configurable so enabling it later is a one-line
// change, but running it always fails loudly instead of pushing a package.
func PublishCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "publish",
		Usage:     "publish the package to the configured registry (disabled)",
		UsageText: "dsctl publish [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags("publish")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if ShortCircuitTLDR(ctx, cmd, "publish") {
				return nil
			}
			applyCommonFlags(cmd)

			m := GetMeta(cmd)
			registry, _ := m.Config.GetString("project.registry", "")
			status.Fail("publishing is disabled for this project")
			if registry != "" {
				status.Hint("configured registry: %s", registry)
			}
			return &execx.ExitError{Code: 1, Cmd: "publish"}
		},
	}
}
