// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package markov

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MinOrder and MaxOrder bound the n-gram order. Below two the chain
	// degenerates to a unigram sampler; above five the state space is too
	// sparse to be useful on small corpora.
	MinOrder = 2
	MaxOrder = 5
)

// StateSpace holds the trained n-gram transition model for one corpus.
type StateSpace struct {
	Order     int
	Tokenizer *Tokenizer

	ngrams      []string
	ngramIndex  map[string]int
	transitions *csrMatrix
}

// NewStateSpace trains an order-n model over the tokenizer's stream.
func NewStateSpace(tok *Tokenizer, order int) (*StateSpace, error) {
	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("n-gram order must be between %d and %d, got %d", MinOrder, MaxOrder, order)
	}
	if len(tok.Tokens) < order+1 {
		return nil, fmt.Errorf("corpus too small for order %d: %d tokens", order, len(tok.Tokens))
	}

	ss := &StateSpace{Order: order, Tokenizer: tok}
	ss.buildNGrams()
	ss.buildTransitions()
	return ss, nil
}

// FromText tokenizes raw corpus text and trains a state space in one step.
func FromText(text string, order int) (*StateSpace, error) {
	return NewStateSpace(NewTokenizer(text), order)
}

func (ss *StateSpace) buildNGrams() {
	tokens := ss.Tokenizer.Tokens
	n := ss.Order

	seen := map[string]struct{}{}
	for i := 0; i+n <= len(tokens); i++ {
		seen[strings.Join(tokens[i:i+n], " ")] = struct{}{}
	}

	ss.ngrams = make([]string, 0, len(seen))
	for g := range seen {
		ss.ngrams = append(ss.ngrams, g)
	}
	sort.Strings(ss.ngrams)

	ss.ngramIndex = make(map[string]int, len(ss.ngrams))
	for i, g := range ss.ngrams {
		ss.ngramIndex[g] = i
	}
}

func (ss *StateSpace) buildTransitions() {
	tokens := ss.Tokenizer.Tokens
	n := ss.Order

	coo := newCOO(len(ss.ngrams), ss.Tokenizer.TotalUniqueTokens())
	for i := 0; i+n < len(tokens); i++ {
		row := ss.ngramIndex[strings.Join(tokens[i:i+n], " ")]
		col := ss.Tokenizer.Index(tokens[i+n])
		coo.Add(row, col, 1)
	}

	ss.transitions = coo.ToCSR()
	ss.transitions.NormalizeRows()
}

// TotalNGrams counts the distinct n-grams in the state space.
func (ss *StateSpace) TotalNGrams() int { return len(ss.ngrams) }

// NGramAt returns the i-th n-gram in sorted order.
func (ss *StateSpace) NGramAt(i int) string { return ss.ngrams[i] }

// IndexOf looks up an n-gram's row, reporting whether it exists.
func (ss *StateSpace) IndexOf(ngram string) (int, bool) {
	i, ok := ss.ngramIndex[ngram]
	return i, ok
}

// Distribution returns the next-token probability row for n-gram i.
func (ss *StateSpace) Distribution(i int) []float64 {
	return ss.transitions.Row(i)
}
