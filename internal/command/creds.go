// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	awsx "github.com/statkit/dsctl/internal/aws"
	"github.com/statkit/dsctl/internal/execx"
	"github.com/statkit/dsctl/internal/identity"
	"github.com/statkit/dsctl/internal/meta"
	"github.com/statkit/dsctl/internal/output"
	"github.com/statkit/dsctl/internal/status"
)

// stsFactory is swapped by tests to avoid touching the real credential
// chain.
var stsFactory = func(ctx context.Context, profile, region string) (identity.STSAPI, error) {
	cfg, err := awsx.LoadAWSConfig(ctx,
		awsx.WithProfile(profile),
		awsx.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return awsx.NewSTS(cfg), nil
}

// CheckAWSCredentialsCommandAction validates the AWS credential chain. A
// failed check prints remediation guidance and exits 1.
func CheckAWSCredentialsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "check-aws-credentials") {
		return nil
	}
	applyCommonFlags(cmd)

	profile, _ := m.Config.GetString("aws.profile", "")
	region, _ := m.Config.GetString("aws.region", "")

	api, err := stsFactory(ctx, profile, region)
	if err != nil {
		return err
	}

	id, err := identity.Check(ctx, api)
	if err != nil {
		log.Debugf("credential check: %v", err)
		status.Fail("AWS credentials are missing, expired, or invalid")
		status.Hint("run `aws configure` or export AWS_PROFILE, then try again")
		return &execx.ExitError{Code: 1, Cmd: "check-aws-credentials"}
	}

	if format := cmd.String("output"); format != "text" {
		return output.Emit(os.Stdout, format, id)
	}

	status.Step("AWS credentials OK: account %s (%s)", id.Account, id.ARN)
	return nil
}

func CheckAWSCredentialsCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "check-aws-credentials",
		Usage:     "verify that AWS credentials are configured and valid",
		UsageText: "dsctl check-aws-credentials [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags:  append([]cli.Flag{tldrFlag}, NewGlobalFlags("check-aws-credentials")...),
		Action: CheckAWSCredentialsCommandAction,
	}
}
