// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package status prints the one-line colored progress messages that precede
// each external invocation.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
)

var (
	// Writer is swapped by tests to capture output.
	Writer io.Writer = os.Stdout

	enabled = true

	stepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// SetColor toggles styled output. Plain text is emitted when disabled.
func SetColor(on bool) {
	enabled = on
}

func emit(style lipgloss.Style, format string, a ...any) {
	line := fmt.Sprintf(format, a...)
	if enabled {
		line = style.Render(line)
	}
	fmt.Fprintln(Writer, line)
}

// Step announces the action about to run.
func Step(format string, a ...any) { emit(stepStyle, format, a...) }

// Fail reports a failed action.
func Fail(format string, a ...any) { emit(failStyle, format, a...) }

// Skip reports an action that was not needed.
func Skip(format string, a ...any) { emit(skipStyle, format, a...) }

// Hint prints remediation or usage guidance.
func Hint(format string, a ...any) { emit(hintStyle, format, a...) }
