package generator

import (
	"context"
	"log/slog"

	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// Chain tries generators in order, moving on only when one fails. An Empty
// result ends the chain: the budget was honoured and nothing fit, which the
// caller answers with its fallback line.
type Chain struct {
	generators []Generator
	logger     *slog.Logger
}

// NewChain creates a generator chain.
// At least one generator is required.
func NewChain(generators ...Generator) (*Chain, error) {
	if len(generators) == 0 {
		return nil, ErrNoGenerators
	}
	return &Chain{
		generators: generators,
		logger:     slog.Default().With("component", "generator.chain"),
	}, nil
}

// NewChainWithLogger creates a generator chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, generators ...Generator) (*Chain, error) {
	chain, err := NewChain(generators...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "generator.chain")
	return chain, nil
}

// Generate returns the first result that did not fail. If every generator
// failed the errors are collected in a ChainError.
func (c *Chain) Generate(ctx context.Context, emotion emotions.Label, maxLen int) Result {
	var errs []error

	for i, g := range c.generators {
		res := g.Generate(ctx, emotion, maxLen)
		if res.Outcome != Failed {
			if i > 0 {
				c.logger.Info("fallback generator used", "generator_index", i, "outcome", res.Outcome)
			}
			return res
		}

		errs = append(errs, res.Err)
		c.logger.Warn("generator failed, trying next", "generator_index", i, "error", res.Err)

		if ctx.Err() != nil {
			return FailedResult(ctx.Err())
		}
	}

	return FailedResult(&ChainError{Errors: errs})
}

// Generators returns the generators in the chain.
func (c *Chain) Generators() []Generator {
	return c.generators
}

var _ Generator = (*Chain)(nil)
