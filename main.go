// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/statkit/dsctl/internal/command"
	"github.com/statkit/dsctl/internal/execx"
	mylog "github.com/statkit/dsctl/internal/log"
	"github.com/statkit/dsctl/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		args = append(args, "--help")
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		// A wrapped tool's exit status passes through unmodified.
		var ee *execx.ExitError
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, err)
			return ee.Code
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}
