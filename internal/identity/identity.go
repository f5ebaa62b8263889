// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package identity validates the configured AWS credentials by asking STS
// who the caller is.
package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSAPI is the slice of the STS client the check needs. Tests provide
// fakes.
type STSAPI interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// Identity describes the validated caller.
type Identity struct {
	Account string `json:"account" yaml:"account"`
	ARN     string `json:"arn" yaml:"arn"`
	UserID  string `json:"user_id" yaml:"user_id"`
}

// Check calls GetCallerIdentity and maps the response. Any error means the
// credential chain is missing, expired, or invalid.
func Check(ctx context.Context, api STSAPI) (Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("caller identity check failed: %w", err)
	}

	var id Identity
	if out.Account != nil {
		id.Account = *out.Account
	}
	if out.Arn != nil {
		id.ARN = *out.Arn
	}
	if out.UserId != nil {
		id.UserID = *out.UserId
	}
	return id, nil
}
