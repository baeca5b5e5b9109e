package ai

import (
	"context"

	"catering/pkg/logger"
	"catering/pkg/metrics"
)

// Chain tries each generator in order and falls back to the static template.
type Chain struct {
	gens []Generator
	log  *logger.Logger
}

func NewChain(log *logger.Logger, gens ...Generator) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	out := make([]Generator, 0, len(gens))
	for _, g := range gens {
		if g != nil {
			out = append(out, g)
		}
	}
	return &Chain{gens: out, log: log}
}

func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.gens)+1)
	for _, g := range c.gens {
		names = append(names, g.Name())
	}
	return append(names, TemplateName)
}

func (c *Chain) GenerateProposal(ctx context.Context, s Selections) Result {
	return c.run(ctx, BuildProposalPrompt(s), func() string { return fallbackProposal(s) })
}

func (c *Chain) GenerateMenu(ctx context.Context, s Selections) Result {
	return c.run(ctx, BuildMenuPrompt(s), func() string { return fallbackMenu(s) })
}

func (c *Chain) run(ctx context.Context, prompt string, fallback func() string) Result {
	for _, g := range c.gens {
		if ctx.Err() != nil {
			break
		}
		text, err := g.Complete(ctx, prompt)
		if err != nil {
			metrics.GeneratorOutcomes.WithLabelValues(g.Name(), "failure").Inc()
			c.log.Warn("generator failed, trying next", "generator", g.Name(), "error", err)
			continue
		}
		metrics.GeneratorOutcomes.WithLabelValues(g.Name(), "success").Inc()
		return Result{Content: text, Generator: g.Name()}
	}
	metrics.GeneratorOutcomes.WithLabelValues(TemplateName, "success").Inc()
	return Result{Content: fallback(), Generator: TemplateName}
}
