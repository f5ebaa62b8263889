// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package markov

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/apex/log"
)

// Chain walks a trained state space to generate token sequences.
type Chain struct {
	space *StateSpace
	rng   *rand.Rand
}

// ChainOption customizes chain construction.
type ChainOption func(*Chain)

// WithSeed makes generation deterministic.
func WithSeed(seed int64) ChainOption {
	return func(c *Chain) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// NewChain wraps a state space with a sampling source.
func NewChain(space *StateSpace, opts ...ChainOption) *Chain {
	c := &Chain{space: space}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return c
}

// RandomNGram picks a uniformly random starting state.
func (c *Chain) RandomNGram() string {
	return c.space.NGramAt(c.rng.Intn(c.space.TotalNGrams()))
}

// CheckPrefix validates a user-supplied starting n-gram. A longer prefix is
// truncated to its last Order tokens; a short or unseen prefix falls back to
// a random one rather than failing the run.
func (c *Chain) CheckPrefix(prefix string) string {
	words := strings.Fields(preprocess(prefix))
	if len(words) > c.space.Order {
		words = words[len(words)-c.space.Order:]
	}

	if len(words) < c.space.Order {
		random := c.RandomNGram()
		log.Warnf("prefix must be %d tokens, falling back to %q", c.space.Order, random)
		return random
	}

	candidate := strings.Join(words, " ")
	if _, ok := c.space.IndexOf(candidate); !ok {
		random := c.RandomNGram()
		log.Warnf("prefix %q not in corpus, falling back to %q", candidate, random)
		return random
	}
	return candidate
}

// NextElement draws the next token from the n-gram's transition row. An
// all-zero row (a terminal n-gram) yields a uniformly random token.
func (c *Chain) NextElement(ngram string) (string, error) {
	row, ok := c.space.IndexOf(ngram)
	if !ok {
		return "", fmt.Errorf("unknown n-gram: %q", ngram)
	}

	dist := c.space.Distribution(row)
	r := c.rng.Float64()

	var cum float64
	for col, p := range dist {
		if p == 0 {
			continue
		}
		cum += p
		if r < cum {
			return c.space.Tokenizer.Unique[col], nil
		}
	}

	// Terminal state or float round-off past the last bucket.
	return c.space.Tokenizer.Unique[c.rng.Intn(len(c.space.Tokenizer.Unique))], nil
}

// GenerateSequence produces length tokens starting from prefix (random when
// empty), sliding the n-gram window one token at a time.
func (c *Chain) GenerateSequence(prefix string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("sequence length must be positive, got %d", length)
	}

	var current string
	if prefix == "" {
		current = c.RandomNGram()
	} else {
		current = c.CheckPrefix(prefix)
	}

	out := strings.Fields(current)
	for len(out) < length {
		next, err := c.NextElement(current)
		if err != nil {
			return "", err
		}
		out = append(out, next)

		window := out[len(out)-c.space.Order:]
		candidate := strings.Join(window, " ")
		if _, ok := c.space.IndexOf(candidate); ok {
			current = candidate
		} else {
			current = c.RandomNGram()
		}
	}

	return strings.Join(out[:length], " "), nil
}
