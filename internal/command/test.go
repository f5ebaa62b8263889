// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/meta"
)

func TestCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "test",
		Usage:  "run the test suite",
		Status: "Running tests...",
		Tool:   "poetry",
		Args:   []string{"run", "pytest"},
		Meta:   m,
	}
	return tcb.Build()
}

func TestVerboseCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "test-verbose",
		Usage:  "run the test suite with verbose reporting",
		Status: "Running tests (verbose)...",
		Tool:   "poetry",
		Args:   []string{"run", "pytest", "-v"},
		Meta:   m,
	}
	return tcb.Build()
}

// coverageCommand points the test runner's coverage at the configured
// source directory, optionally adding a report flavor.
func coverageCommand(m meta.Meta, name, usage, statusMsg string, extra ...string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		UsageText: "dsctl " + name + " [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags(name)...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mm := GetMeta(cmd)
			log.Debugf("Executing action for %v", mm.Args[1:])

			if ShortCircuitTLDR(ctx, cmd, name) {
				return nil
			}
			applyCommonFlags(cmd)

			args := append([]string{"run", "pytest", "--cov=" + srcDir(cmd)}, extra...)
			return RunTool(ctx, cmd, statusMsg, "poetry", args...)
		},
	}
}

func TestCoverageCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return coverageCommand(m, "test-coverage",
		"run the test suite with a coverage summary",
		"Running tests with coverage...")
}

func TestCoverageHTMLCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return coverageCommand(m, "test-coverage-html",
		"run the test suite and write an HTML coverage report",
		"Running tests with HTML coverage...",
		"--cov-report=html")
}
