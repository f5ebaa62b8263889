// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/meta"
)

// srcDir resolves the Python package directory that the linter, type
// checker, and coverage runs point at.
func srcDir(cmd *cli.Command) string {
	m := GetMeta(cmd)
	dir, _ := m.Config.GetString("project.src", "src")
	return dir
}

func LintCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return toolWithSrc(m, "lint", "run the linter over the source tree",
		"Linting...", "poetry", "run", "flake8")
}

func FormatCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return toolWithSrc(m, "format", "format the source tree",
		"Formatting...", "poetry", "run", "black")
}

func CheckTypesCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return toolWithSrc(m, "check-types", "run the static type checker",
		"Checking types...", "poetry", "run", "mypy")
}

func PreCommitCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	tcb := ToolCommandBuilder{
		Name:   "pre-commit",
		Usage:  "run all pre-commit hooks against every file",
		Status: "Running pre-commit hooks...",
		Tool:   "poetry",
		Args:   []string{"run", "pre-commit", "run", "--all-files"},
		Meta:   m,
	}
	return tcb.Build()
}

// CodeQualityCommandBuilder chains format, lint, and check-types in order,
// stopping at the first failing tool.
func CodeQualityCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "code-quality",
		Usage:     "format, lint, and type-check in one pass",
		UsageText: "dsctl code-quality [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags("code-quality")...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mm := GetMeta(cmd)
			log.Debugf("Executing action for %v", mm.Args[1:])

			if ShortCircuitTLDR(ctx, cmd, "code-quality") {
				return nil
			}
			applyCommonFlags(cmd)

			src := srcDir(cmd)
			steps := []struct {
				status string
				args   []string
			}{
				{"Formatting...", []string{"run", "black", src}},
				{"Linting...", []string{"run", "flake8", src}},
				{"Checking types...", []string{"run", "mypy", src}},
			}
			for _, s := range steps {
				if err := RunTool(ctx, cmd, s.status, "poetry", s.args...); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// toolWithSrc builds a single-tool command whose final argument is the
// configured source directory.
func toolWithSrc(m meta.Meta, name, usage, statusMsg, tool string, args ...string) *cli.Command {
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

			return RunTool(ctx, cmd, statusMsg, tool, append(args, srcDir(cmd))...)
		},
	}
}
