// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/status"
)

// cleanDirs are removed from the project root when present.
var cleanDirs = []string{
	"dist",
	"build",
	".pytest_cache",
	".mypy_cache",
	"htmlcov",
}

// cleanFiles are removed from the project root when present.
var cleanFiles = []string{
	".coverage",
}

// CleanCommandAction removes build and test artifacts. It is idempotent:
// artifacts that do not exist are not an error.
func CleanCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "clean") {
		return nil
	}
	applyCommonFlags(cmd)

	root := RootDir(cmd)
	status.Step("Cleaning build and test artifacts...")

	removed := 0
	for _, d := range cleanDirs {
		p := filepath.Join(root, d)
		if _, err := os.Stat(p); err == nil {
			if err := os.RemoveAll(p); err != nil {
				return err
			}
			removed++
		}
	}
	for _, f := range cleanFiles {
		p := filepath.Join(root, f)
		if err := os.Remove(p); err == nil {
			removed++
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	// __pycache__ and egg-info trees can appear anywhere under the root.
	var nested []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == "__pycache__" || strings.HasSuffix(d.Name(), ".egg-info") {
			nested = append(nested, p)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range nested {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
		removed++
	}

	if removed == 0 {
		status.Skip("nothing to clean")
	}
	return nil
}

func CleanCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "remove build and test artifacts",
		UsageText: "dsctl clean [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  append([]cli.Flag{tldrFlag}, NewGlobalFlags("clean")...),
		Action: CleanCommandAction,
	}
}
