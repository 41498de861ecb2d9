package search

import (
	"log/slog"
	"slices"

	aho "github.com/petar-dambovaliev/aho-corasick"
	"github.com/poiesic/vitrine/core"
)

// Tier is a ranking bucket. Higher tiers rank first.
type Tier int

const (
	TierNone Tier = iota
	TierSomeTokens
	TierAllTokens
	TierPhrase
)

func (t Tier) String() string {
	switch t {
	case TierPhrase:
		return "phrase"
	case TierAllTokens:
		return "all-tokens"
	case TierSomeTokens:
		return "some-tokens"
	default:
		return "none"
	}
}

// Hit is one ranked product with the signals that placed it. Index is the
// product's position in the catalog, Score the fraction of query tokens found,
// and Position the byte offset of the earliest token occurrence in the
// product's search text.
type Hit struct {
	Product  *core.Product
	Index    int
	Tier     Tier
	Score    float64
	Position int

	matched int
}

// Searcher ranks the products of one catalog against text queries.
type Searcher struct {
	products []*core.Product
	texts    [][]byte
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over catalog. Products without stored search
// text have it computed once here.
func NewSearcher(catalog *core.Catalog, opts ...Option) (*Searcher, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}

	s := &Searcher{
		products: catalog.Products,
		texts:    make([][]byte, len(catalog.Products)),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	for i, p := range s.products {
		text := p.SearchText
		if text == "" {
			text = core.BuildSearchText(p)
		}
		s.texts[i] = []byte(text)
	}

	s.logger.Debug("searcher ready", "products", len(s.products))
	return s, nil
}

// Len returns the number of products in the catalog.
func (s *Searcher) Len() int {
	return len(s.products)
}

// All returns every product in catalog order. The slice is never nil.
func (s *Searcher) All() []*core.Product {
	return append(make([]*core.Product, 0, len(s.products)), s.products...)
}

// Search returns the products matching query, best first.
// A query without letters or digits matches nothing.
func (s *Searcher) Search(query string) []*core.Product {
	hits := s.SearchHits(query)
	products := make([]*core.Product, len(hits))
	for i := range hits {
		products[i] = hits[i].Product
	}
	return products
}

// SearchHits is Search with the ranking signals of every hit.
func (s *Searcher) SearchHits(query string) []Hit {
	return s.SearchWithMonitor(query, nil)
}

// SearchWithMonitor searches with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(query string, monitor SearchMonitor) []Hit {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	phrase, tokens := normalizeQuery(query)
	monitor.AfterNormalize(phrase, tokens)

	hits := []Hit{}
	if len(tokens) == 0 {
		monitor.Finish(hits)
		return hits
	}

	m := newMatcher(phrase, tokens)
	for i, text := range s.texts {
		hit, ok := m.match(text)
		if !ok {
			continue
		}
		hit.Product = s.products[i]
		hit.Index = i
		monitor.Hit(hit)
		hits = append(hits, hit)
	}

	slices.SortFunc(hits, compareHits)
	monitor.Finish(hits)

	s.logger.Debug("search complete", "query", phrase, "tokens", len(tokens), "hits", len(hits))
	return hits
}

// compareHits orders by tier, then score, then earliest position for partial
// matches, then catalog order.
func compareHits(a, b Hit) int {
	if a.Tier != b.Tier {
		return int(b.Tier - a.Tier)
	}
	if a.matched != b.matched {
		return b.matched - a.matched
	}
	if a.Tier == TierSomeTokens && a.Position != b.Position {
		return a.Position - b.Position
	}
	return a.Index - b.Index
}

// matcher finds every query pattern in a text with one automaton scan.
// Patterns are the tokens followed by the phrase, unless the phrase equals a token.
type matcher struct {
	automaton aho.AhoCorasick
	tokens    int
	patterns  int
	phrase    int
}

func newMatcher(phrase string, tokens []string) *matcher {
	patterns := slices.Clone(tokens)
	phraseIdx := slices.Index(tokens, phrase)
	if phraseIdx < 0 {
		phraseIdx = len(patterns)
		patterns = append(patterns, phrase)
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &matcher{
		automaton: builder.Build(patterns),
		tokens:    len(tokens),
		patterns:  len(patterns),
		phrase:    phraseIdx,
	}
}

func (m *matcher) match(text []byte) (Hit, bool) {
	found := make([]bool, m.patterns)
	seen := 0
	matched := 0
	position := -1

	iter := m.automaton.IterOverlappingByte(text)
	for next := iter.Next(); next != nil; next = iter.Next() {
		idx := next.Pattern()
		if idx < m.tokens && (position < 0 || next.Start() < position) {
			position = next.Start()
		}
		if found[idx] {
			continue
		}
		found[idx] = true
		seen++
		if idx < m.tokens {
			matched++
		}
		if seen == m.patterns {
			break
		}
	}

	if matched == 0 {
		return Hit{}, false
	}

	hit := Hit{
		Score:    float64(matched) / float64(m.tokens),
		Position: position,
		matched:  matched,
	}
	switch {
	case found[m.phrase]:
		hit.Tier = TierPhrase
	case matched == m.tokens:
		hit.Tier = TierAllTokens
	default:
		hit.Tier = TierSomeTokens
	}
	return hit, true
}
