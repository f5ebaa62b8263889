// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"github.com/statkit/dsctl/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
// RootDir is the explicit project base directory; path-based commands
// resolve against it instead of the ambient working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	RootDir     string
	StartingDir string
}
