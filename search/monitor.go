package search

import "log/slog"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterNormalize(phrase string, tokens []string)
	Hit(hit Hit)
	Finish(hits []Hit)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterNormalize(_ string, _ []string) {}
func (n *noopMonitor) Hit(_ Hit)                           {}
func (n *noopMonitor) Finish(_ []Hit)                      {}

// LogMonitor logs each search stage at debug level.
type LogMonitor struct {
	Logger *slog.Logger
}

var _ SearchMonitor = (*LogMonitor)(nil)

func (m *LogMonitor) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *LogMonitor) Start(query string) {
	m.logger().Debug("search started", "query", query)
}

func (m *LogMonitor) AfterNormalize(phrase string, tokens []string) {
	m.logger().Debug("query normalized", "phrase", phrase, "tokens", tokens)
}

func (m *LogMonitor) Hit(hit Hit) {
	m.logger().Debug("product matched", "slug", hit.Product.Slug, "tier", hit.Tier,
		"score", hit.Score, "position", hit.Position)
}

func (m *LogMonitor) Finish(hits []Hit) {
	m.logger().Debug("search finished", "hits", len(hits))
}
