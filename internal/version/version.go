// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build-stamped version string.
package version

// Version is overridden at build time via
// -ldflags "-X github.com/statkit/dsctl/internal/version.Version=...".
var Version = "0.0.0-dev"
