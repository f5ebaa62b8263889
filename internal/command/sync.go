// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	awsx "github.com/statkit/dsctl/internal/aws"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/output"
	"github.com/statkit/dsctl/internal/status"
	"github.com/statkit/dsctl/internal/syncer"
)

// s3Factory is swapped by tests to avoid touching real buckets.
var s3Factory = func(ctx context.Context, profile, region string) (syncer.S3API, error) {
	cfg, err := awsx.LoadAWSConfig(ctx,
		awsx.WithProfile(profile),
		awsx.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return awsx.NewS3(cfg), nil
}

func newSyncer(ctx context.Context, cmd *cli.Command) (*syncer.Syncer, error) {
	m := GetMeta(cmd)

	bucket, err := m.Config.GetString("aws.bucket")
	if err != nil || bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured: set aws.bucket in the config file")
	}
	prefix, _ := m.Config.GetString("aws.prefix", "data")
	dataDir, _ := m.Config.GetString("data.dir", "data")
	profile, _ := m.Config.GetString("aws.profile", "")
	region, _ := m.Config.GetString("aws.region", "")

	client, err := s3Factory(ctx, profile, region)
	if err != nil {
		return nil, err
	}

	return &syncer.Syncer{
		Client:   client,
		Bucket:   bucket,
		Prefix:   prefix,
		LocalDir: filepath.Join(RootDir(cmd), dataDir),
		DryRun:   cmd.Bool("dry-run"),
	}, nil
}

func emitSummary(cmd *cli.Command, sum syncer.Summary, dryRun bool) error {
	if format := cmd.String("output"); format != "text" {
		return output.Emit(os.Stdout, format, sum)
	}

	if len(sum.Actions) > 0 {
		rows := make([][]string, 0, len(sum.Actions))
		for _, a := range sum.Actions {
			rows = append(rows, []string{string(a.Op), a.Key, humanize.Bytes(uint64(a.Size)), a.Reason})
		}
		output.Table(os.Stdout, []string{"OP", "KEY", "SIZE", "REASON"}, rows)
	}

	verb := "transferred"
	if dryRun {
		verb = "would transfer"
	}
	status.Step("%s %d objects (%s), %d up to date",
		verb, sum.Transferred, humanize.Bytes(uint64(sum.Bytes)), sum.Skipped)
	return nil
}

func syncAction(name string, push bool) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		m := GetMeta(cmd)
		log.Debugf("Executing action for %v", m.Args[1:])

		if ShortCircuitTLDR(ctx, cmd, name) {
			return nil
		}
		applyCommonFlags(cmd)

		s, err := newSyncer(ctx, cmd)
		if err != nil {
			return err
		}

		if push {
			status.Step("Syncing %s to s3://%s/%s...", s.LocalDir, s.Bucket, s.Prefix)
		} else {
			status.Step("Syncing s3://%s/%s to %s...", s.Bucket, s.Prefix, s.LocalDir)
		}

		var sum syncer.Summary
		if push {
			sum, err = s.Push(ctx)
		} else {
			sum, err = s.Pull(ctx)
		}
		if err != nil {
			return err
		}

		return emitSummary(cmd, sum, s.DryRun)
	}
}

func syncFlags(ns string) []cli.Flag {
	return append([]cli.Flag{
		tldrFlag,
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "plan transfers without copying anything",
			HideDefault: true,
		},
	}, NewGlobalFlags(ns)...)
}

func SyncDataToS3CommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "sync-data-to-s3",
		Usage:     "upload the local data directory to the configured bucket",
		UsageText: "dsctl sync-data-to-s3 [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  syncFlags("sync-data-to-s3"),
		Action: syncAction("sync-data-to-s3", true),
	}
}

func SyncDataFromS3CommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "sync-data-from-s3",
		Usage:     "download the configured bucket's data into the local data directory",
		UsageText: "dsctl sync-data-from-s3 [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  syncFlags("sync-data-from-s3"),
		Action: syncAction("sync-data-from-s3", false),
	}
}
