// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/config"
	"github.com/statkit/dsctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	// The arg[1] immediately following the binary (arg[0]) is the dsctl
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)

	sd, _ := os.Getwd()
	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		RootDir:     sd,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "dsctl",
		Usage: "Data Science Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "dsctl version info",
				HideDefault: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// Reaching the root action with arguments means the subcommand
			// didn't match anything registered.
			if args := cmd.Args().Slice(); len(args) > 0 {
				suggestion := nearestCommand(cmd, args[0])
				_ = cli.ShowAppHelp(cmd)
				if suggestion != "" {
					return fmt.Errorf("unknown command %q (did you mean %q?)", args[0], suggestion)
				}
				return fmt.Errorf("unknown command %q", args[0])
			}
			return cli.ShowAppHelp(cmd)
		},
	}

	app.Commands = append(app.Commands,
		SetupCommandBuilder(app, m),
		ActivateEnvCommandBuilder(app, m),
		DeactivateEnvCommandBuilder(app, m),
		CheckVenvCommandBuilder(app, m),
		PythonVersionCommandBuilder(app, m),
		CleanCommandBuilder(app, m),
		BuildCommandBuilder(app, m),
		UpdateDepsCommandBuilder(app, m),
		JupyterCommandBuilder(app, m),
		InstallAWSCLICommandBuilder(app, m),
		CheckAWSCredentialsCommandBuilder(app, m),
		SyncDataToS3CommandBuilder(app, m),
		SyncDataFromS3CommandBuilder(app, m),
		PreCommitCommandBuilder(app, m),
		LintCommandBuilder(app, m),
		FormatCommandBuilder(app, m),
		CheckTypesCommandBuilder(app, m),
		CodeQualityCommandBuilder(app, m),
		TestCommandBuilder(app, m),
		TestVerboseCommandBuilder(app, m),
		TestCoverageCommandBuilder(app, m),
		TestCoverageHTMLCommandBuilder(app, m),
		PublishCommandBuilder(app, m),
		GenerateCommandBuilder(app, m),
		CompletionCommandBuilder(app, m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// nearestCommand returns the registered command name closest to the typo,
// or "" when nothing is close enough to be a plausible intent.
func nearestCommand(app *cli.Command, typo string) string {
	best := ""
	bestDist := len(typo)/2 + 1
	for _, c := range app.Commands {
		d := levenshtein.ComputeDistance(typo, c.Name)
		if d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best
}
