// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/statkit/dsctl/internal/markov"
	"github.com/statkit/dsctl/internal/meta"
)

// GenerateCommandAction trains an n-gram chain on the corpus file and prints
// a generated token sequence.
func GenerateCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "generate") {
		return nil
	}
	applyCommonFlags(cmd)

	corpus := cmd.String("corpus")
	raw, err := os.ReadFile(corpus)
	if err != nil {
		return fmt.Errorf("failed to read corpus %s: %w", corpus, err)
	}

	space, err := markov.FromText(string(raw), cmd.Int("order"))
	if err != nil {
		return err
	}
	log.Debugf("state space: %d n-grams over %d unique tokens",
		space.TotalNGrams(), space.Tokenizer.TotalUniqueTokens())

	var opts []markov.ChainOption
	if cmd.IsSet("seed") {
		opts = append(opts, markov.WithSeed(cmd.Int64("seed")))
	}
	chain := markov.NewChain(space, opts...)

	text, err := chain.GenerateSequence(cmd.String("prefix"), cmd.Int("length"))
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, text)
	return nil
}

func GenerateCommandBuilder(app *cli.Command, m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "generate text from a Markov chain trained on a corpus file",
		UsageText: "dsctl generate --corpus FILE [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			tldrFlag,
			&cli.StringFlag{
				Name:     "corpus",
				Usage:    "plain-text training corpus",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "length",
				Usage: "number of tokens to generate",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "order",
				Usage: "n-gram order",
				Value: 2,
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "starting n-gram (random when omitted or unseen)",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for reproducible output",
			},
		}, NewGlobalFlags("generate")...),
		Action: GenerateCommandAction,
	}
}
