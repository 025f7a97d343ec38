package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy vendor match.
const DefaultFuzzyThreshold = 0.95

// VendorMatcher finds which known vendor an invoice is addressed to.
type VendorMatcher struct {
	names     []string
	sim       Similarity
	threshold float64
	logger    *slog.Logger
}

// NewVendorMatcher builds a matcher over vendor names in table order. A nil
// sim disables fuzzy matching; a non-positive threshold uses the default.
func NewVendorMatcher(names []string, sim Similarity, threshold float64, logger *slog.Logger) *VendorMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	m := &VendorMatcher{sim: sim, threshold: threshold, logger: logger}
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			m.names = append(m.names, n)
		}
	}
	return m
}

// Match scans lines in order and returns the vendor of the first line that
// matches, or "" when none does. On each line an exact substring match is
// tried first (longest name wins), then the best fuzzy score at or above the
// threshold.
func (m *VendorMatcher) Match(ctx context.Context, lines []string) string {
	if len(m.names) == 0 {
		return ""
	}
	logger := common.LoggerFromContext(ctx, m.logger)
	for i, line := range lines {
		if ctx.Err() != nil {
			return ""
		}
		l := strings.ToLower(strings.TrimSpace(line))
		if l == "" {
			continue
		}
		if name := m.exact(l); name != "" {
			return name
		}
		if m.sim == nil {
			continue
		}
		name, score, err := m.fuzzy(l)
		if err != nil {
			logger.Warn("vendor.fuzzy.failed", "line", i, "error", err)
			continue
		}
		if name != "" && score >= m.threshold {
			logger.Debug("vendor.fuzzy.ok", "line", i, "vendor", name, "score", score)
			return name
		}
	}
	return ""
}

func (m *VendorMatcher) exact(line string) string {
	best := ""
	for _, n := range m.names {
		if len(n) > len(best) && strings.Contains(line, n) {
			best = n
		}
	}
	return best
}

func (m *VendorMatcher) fuzzy(line string) (string, float64, error) {
	best, bestScore := "", -1.0
	for _, n := range m.names {
		s, err := m.sim.Similarity(line, n)
		if err != nil {
			return "", 0, err
		}
		if s > bestScore {
			best, bestScore = n, s
		}
	}
	return best, bestScore, nil
}
