package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mb-14/gomarkov"
	"github.com/teslashibe/go-palimpsest/pkg/emotions"
)

// MarkovConfig holds Markov generator parameters.
type MarkovConfig struct {
	Order    int // Words of context per state
	Tries    int // Walks attempted per Generate before giving up
	MinWords int // Shorter walks are rejected
	MaxWords int // Walks are cut off after this many words

	Logger *slog.Logger
}

// DefaultMarkovConfig returns defaults close to markovify's make_short_sentence.
func DefaultMarkovConfig() MarkovConfig {
	return MarkovConfig{
		Order:    2,
		Tries:    120,
		MinWords: 3,
		MaxWords: 40,
		Logger:   slog.Default(),
	}
}

// Markov generates sentences from one word-level Markov chain per emotion.
type Markov struct {
	chains map[emotions.Label]*gomarkov.Chain
	cfg    MarkovConfig
	logger *slog.Logger
}

// NewMarkov builds a chain for every corpus.
func NewMarkov(corpora Corpora, cfg MarkovConfig) (*Markov, error) {
	def := DefaultMarkovConfig()
	if cfg.Order <= 0 {
		cfg.Order = def.Order
	}
	if cfg.Tries <= 0 {
		cfg.Tries = def.Tries
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = def.MaxWords
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	m := &Markov{
		chains: make(map[emotions.Label]*gomarkov.Chain),
		cfg:    cfg,
		logger: cfg.Logger.With("component", "generator.markov"),
	}

	for label, text := range corpora {
		chain := gomarkov.NewChain(cfg.Order)
		n := 0
		for _, s := range SplitSentences(text) {
			words := strings.Fields(s)
			if len(words) == 0 {
				continue
			}
			chain.Add(words)
			n++
		}
		if n == 0 {
			continue
		}
		m.chains[label] = chain
		m.logger.Debug("corpus loaded", "emotion", label, "sentences", n)
	}

	if len(m.chains) == 0 {
		return nil, ErrNoCorpus
	}
	if missing := m.Missing(); len(missing) > 0 {
		m.logger.Info("emotions without a corpus speak with the neutral voice", "emotions", missing)
	}
	return m, nil
}

// Missing returns the known emotions that have no chain of their own.
func (m *Markov) Missing() []emotions.Label {
	var out []emotions.Label
	for _, l := range emotions.Known() {
		if _, ok := m.chains[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}

// Generate walks the emotion's chain up to Tries times and returns the first
// sentence between MinWords words and maxLen characters.
func (m *Markov) Generate(ctx context.Context, emotion emotions.Label, maxLen int) Result {
	chain, ok := m.chains[emotion.Voice()]
	if !ok {
		chain, ok = m.chains[emotions.Neutral]
	}
	if !ok {
		return FailedResult(fmt.Errorf("%w: %s", ErrNoVoice, emotion))
	}

	for try := 0; try < m.cfg.Tries; try++ {
		if err := ctx.Err(); err != nil {
			return FailedResult(err)
		}

		words, err := m.walk(chain)
		if err != nil {
			return FailedResult(fmt.Errorf("markov walk: %w", err))
		}
		if len(words) < m.cfg.MinWords {
			continue
		}
		if s := strings.Join(words, " "); Length(s) <= maxLen {
			return TextResult(s)
		}
	}

	m.logger.Debug("no sentence under budget", "emotion", emotion, "max_len", maxLen, "tries", m.cfg.Tries)
	return EmptyResult()
}

// walk generates one token sequence from the start state to the end token.
func (m *Markov) walk(chain *gomarkov.Chain) ([]string, error) {
	order := chain.Order
	tokens := make([]string, 0, order+m.cfg.MaxWords)
	for i := 0; i < order; i++ {
		tokens = append(tokens, gomarkov.StartToken)
	}

	for len(tokens)-order < m.cfg.MaxWords {
		next, err := chain.Generate(tokens[len(tokens)-order:])
		if err != nil {
			return nil, err
		}
		if next == gomarkov.EndToken {
			break
		}
		tokens = append(tokens, next)
	}
	return tokens[order:], nil
}

// Voices returns the emotions with a chain of their own.
func (m *Markov) Voices() []emotions.Label {
	c := make(Corpora, len(m.chains))
	for l := range m.chains {
		c[l] = ""
	}
	return c.Labels()
}

var _ Generator = (*Markov)(nil)
