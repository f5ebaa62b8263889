// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Account string `json:"account" yaml:"account"`
	ARN     string `json:"arn" yaml:"arn"`
}

func TestEmit_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Emit(&buf, "json", payload{Account: "123", ARN: "arn:aws:iam::123:user/dev"})
	assert.NoError(t, err)

	var got payload
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "123", got.Account)
	// Indented output, not a single line.
	assert.Contains(t, buf.String(), "\n  \"account\"")
}

func TestEmit_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := Emit(&buf, "yaml", payload{Account: "123", ARN: "a"})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "account: \"123\"")
}

func TestEmit_RejectsText(t *testing.T) {
	var buf bytes.Buffer
	err := Emit(&buf, "text", payload{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"OP", "KEY"}, [][]string{
		{"upload", "data/terms.csv"},
		{"download", "data/raw/corpus.txt"},
	})

	out := buf.String()
	assert.Contains(t, out, "OP")
	assert.Contains(t, out, "data/terms.csv")
	assert.True(t, strings.Count(out, "\n") >= 3)
}
