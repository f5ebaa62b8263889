// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

// Package markov generates text from an n-gram Markov chain trained on a
// plain-text corpus. Transition counts live in a sparse row-stochastic
// matrix keyed by n-gram.
package markov

import (
	"regexp"
	"sort"
	"strings"
)

// UnknownToken stands in for any token not seen during training.
const UnknownToken = "<| unknown |>"

var (
	newlineBetween = regexp.MustCompile(`(\S)(\n)(\S)`)
	multiSpace     = regexp.MustCompile(` {2,}`)
)

// Tokenizer turns raw corpus text into a normalized token stream with a
// stable token-to-index mapping.
type Tokenizer struct {
	Tokens  []string
	Unique  []string
	Mapping map[string]int
}

// padded punctuation survives as standalone tokens; removed characters
// vanish entirely.
const (
	paddedChars  = "!?.,:-;"
	removedChars = "\"()_"
)

func preprocess(text string) string {
	// A newline squeezed between words acts as a separator, not a join.
	// Case is preserved: "The" and "the" are distinct tokens.
	text = newlineBetween.ReplaceAllString(text, "$1 $2 $3")

	for _, r := range removedChars + "\n" {
		text = strings.ReplaceAll(text, string(r), "")
	}
	for _, r := range paddedChars {
		text = strings.ReplaceAll(text, string(r), " "+string(r)+" ")
	}

	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// NewTokenizer normalizes text and builds the vocabulary. The unknown
// sentinel always occupies an index so untrained lookups stay in range.
func NewTokenizer(text string) *Tokenizer {
	clean := preprocess(text)

	var tokens []string
	if clean != "" {
		tokens = strings.Split(clean, " ")
	}

	seen := map[string]struct{}{UnknownToken: {}}
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}

	unique := make([]string, 0, len(seen))
	for tok := range seen {
		unique = append(unique, tok)
	}
	sort.Strings(unique)

	mapping := make(map[string]int, len(unique))
	for i, tok := range unique {
		mapping[tok] = i
	}

	return &Tokenizer{Tokens: tokens, Unique: unique, Mapping: mapping}
}

// TotalTokens is the corpus length after normalization.
func (t *Tokenizer) TotalTokens() int { return len(t.Tokens) }

// TotalUniqueTokens counts the vocabulary, sentinel included.
func (t *Tokenizer) TotalUniqueTokens() int { return len(t.Unique) }

// Index maps a token to its vocabulary index, falling back to the unknown
// sentinel.
func (t *Tokenizer) Index(token string) int {
	if i, ok := t.Mapping[token]; ok {
		return i
	}
	return t.Mapping[UnknownToken]
}
