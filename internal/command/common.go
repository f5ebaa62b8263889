// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/execx"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/status"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr dsctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "dsctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// RootDir resolves the directory a command operates in. The --dir flag (and
// its config/env sources) wins; otherwise it is the directory resolved at
// startup.
func RootDir(cmd *cli.Command) string {
	if dir := cmd.String("dir"); dir != "" {
		return dir
	}
	return GetMeta(cmd).RootDir
}

// applyCommonFlags consumes the flags every action honors.
func applyCommonFlags(cmd *cli.Command) {
	status.SetColor(cmd.Bool("color"))
}

// RunTool invokes one external tool with a fixed argv, honoring a per-tool
// override from the config file (tools.<name>). The tool's exit status
// propagates unmodified as an ExitError.
func RunTool(ctx context.Context, cmd *cli.Command, msg string, name string, args ...string) error {
	m := GetMeta(cmd)

	argv := append([]string{name}, args...)
	if override, err := m.Config.GetStringSlice("tools." + name); err == nil && len(override) > 0 {
		argv = append(override, args...)
		log.Debugf("tool %s overridden: %v", name, argv)
	}

	if msg != "" {
		status.Step("%s", msg)
	}

	res := execx.Run(ctx, RootDir(cmd), argv[0], argv[1:]...)
	if res.Code != 0 {
		return &execx.ExitError{Code: res.Code, Cmd: argv[0]}
	}
	return nil
}

// ToolCommandBuilder constructs a cli.Command for subcommands that wrap
// exactly one external tool invocation with a fixed argv.
type ToolCommandBuilder struct {
	Name    string
	Usage   string
	Status  string
	Tool    string
	Args    []string
	Meta    meta.Meta
	Aliases []string
}

// Build returns a configured cli.Command from the builder.
func (tcb *ToolCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      tcb.Name,
		Aliases:   tcb.Aliases,
		Usage:     tcb.Usage,
		UsageText: "dsctl " + tcb.Name + " [options]",
		Metadata: map[string]any{
			"meta": tcb.Meta,
		},
		Flags: append([]cli.Flag{tldrFlag}, NewGlobalFlags(tcb.Name)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			m := GetMeta(cmd)
			log.Debugf("Executing action for %v", m.Args[1:])

			if ShortCircuitTLDR(ctx, cmd, tcb.Name) {
				return nil
			}
			applyCommonFlags(cmd)

			return RunTool(ctx, cmd, tcb.Status, tcb.Tool, tcb.Args...)
		},
	}
}

// FixedArgv renders the builder's tool line for help and docs.
func (tcb *ToolCommandBuilder) FixedArgv() string {
	return strings.Join(append([]string{tcb.Tool}, tcb.Args...), " ")
}
