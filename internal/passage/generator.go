package passage

import (
	"math/rand"
	"strings"
	"unicode"
)

// WordOptions controls passages built from a word list.
type WordOptions struct {
	Count    int
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator builds a fresh passage of random words for every session.
type Generator struct {
	rnd   *rand.Rand
	words []string
	opts  WordOptions
}

// NewGenerator returns a Generator over words drawing from rnd.
func NewGenerator(words []string, opts WordOptions, rnd *rand.Rand) (*Generator, error) {
	if len(words) == 0 {
		return nil, ErrNoPassages
	}
	if opts.Count <= 0 {
		opts.Count = 1
	}
	return &Generator{rnd: rnd, words: words, opts: opts}, nil
}

// Next selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Next() string {
	result := make([]string, 0, g.opts.Count)
	for i := 0; i < g.opts.Count; i++ {
		word := g.words[g.rnd.Intn(len(g.words))]
		word = applyCaps(g.rnd, word, g.opts.CapsPct)
		word = applyPunct(g.rnd, word, g.opts.PunctPct, g.opts.PunctSet)
		result = append(result, word)
	}
	return strings.Join(result, " ")
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 || rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 || rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
