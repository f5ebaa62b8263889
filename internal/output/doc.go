// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package output emits structured command results as JSON or YAML and
// renders the borderless tables used for text output.
package output
