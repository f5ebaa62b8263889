// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package aws wraps AWS SDK v2 config loading and client construction so
// commands never touch the SDK's load-options plumbing directly.
package aws
