// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	yaml "gopkg.in/yaml.v2"
)

// Emit writes v to w in the requested format. Text rendering is the
// caller's business (each command knows its own text shape), so "text"
// is rejected here; use Table for tabular text output.
func Emit(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		bytes, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(bytes)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Table renders rows under headers with the borderless style used across
// the CLI.
func Table(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers(headers...).
		Rows(rows...)

	fmt.Fprintln(w, t)
}
