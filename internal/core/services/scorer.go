package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/ragdrive/internal/core/domain"
)

// Default scoring weights.
const (
	DefaultContentWeight = 10.0
	DefaultNameWeight    = 20.0
	DefaultTopK          = 6
)

// Scorer ranks chunks by lexical overlap with a query.
type Scorer struct {
	contentWeight float64
	nameWeight    float64
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithContentWeight sets the score added per term found in chunk text.
func WithContentWeight(w float64) ScorerOption {
	return func(s *Scorer) {
		if w > 0 {
			s.contentWeight = w
		}
	}
}

// WithNameWeight sets the score added per term found in the file name.
func WithNameWeight(w float64) ScorerOption {
	return func(s *Scorer) {
		if w >= 0 {
			s.nameWeight = w
		}
	}
}

// NewScorer creates a scorer with default weights.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{contentWeight: DefaultContentWeight, nameWeight: DefaultNameWeight}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Terms splits a query into lowercase terms on whitespace and punctuation.
// Empty tokens are dropped and each term appears once, in first-seen order.
func Terms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	seen := make(map[string]bool, len(fields))
	terms := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

// Score returns the chunks with a positive score, highest first, at most
// topK of them. Each term contained in the chunk text adds the content
// weight; each term contained in the file name adds the name weight.
// Ties keep input order. A topK of zero or less means DefaultTopK.
func (s *Scorer) Score(chunks []domain.Chunk, query string, topK int) []domain.ScoredChunk {
	if topK <= 0 {
		topK = DefaultTopK
	}
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var scored []domain.ScoredChunk
	for _, c := range chunks {
		text := strings.ToLower(c.Text)
		name := strings.ToLower(c.FileName)

		score := 0.0
		for _, term := range terms {
			if strings.Contains(text, term) {
				score += s.contentWeight
			}
			if strings.Contains(name, term) {
				score += s.nameWeight
			}
		}
		if score > 0 {
			scored = append(scored, domain.ScoredChunk{Chunk: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
