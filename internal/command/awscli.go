// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"runtime"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/installer"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/status"
)

// installerPlatform is swapped by tests to exercise the unsupported path.
var installerPlatform = runtime.GOOS

// InstallAWSCLICommandAction installs the AWS CLI when it is not already on
// PATH.
func InstallAWSCLICommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "install-aws-cli") {
		return nil
	}
	applyCommonFlags(cmd)

	installed, err := installer.EnsureAWSCLI(ctx, installerPlatform, RootDir(cmd))
	if err != nil {
		return err
	}
	if installed {
		status.Step("AWS CLI installed")
	}
	return nil
}

func InstallAWSCLICommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "install-aws-cli",
		Usage:     "install the AWS CLI if it is missing",
		UsageText: "dsctl install-aws-cli [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  append([]cli.Flag{tldrFlag}, NewGlobalFlags("install-aws-cli")...),
		Action: InstallAWSCLICommandAction,
	}
}
