// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// dsctl is the main package for the dsctl command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
