package artistcache

import (
	"context"
	"fmt"
)

// WarmStats describes one Warm run.
type WarmStats struct {
	Requested int `json:"requested"`
	Hits      int `json:"hits"`
	Fetched   int `json:"fetched"`

	// Fetched artists for which no genres were found.
	Empty int `json:"empty"`
}

// Warm fetches every name that has no entry yet, one at a time, waiting on
// pace before each external lookup. It stops early only when ctx is done.
func (c *Cache) Warm(ctx context.Context, names []string, pace Pacer) (WarmStats, error) {
	stats := WarmStats{Requested: len(names)}
	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("canceled: %w", err)
		}

		if c.Has(name) {
			stats.Hits++
		} else {
			genres := c.Fetch(ctx, name, pace)
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("canceled: %w", err)
			}
			stats.Fetched++
			if len(genres) == 0 {
				stats.Empty++
			}
		}

		if (i+1)%50 == 0 {
			c.log.Info().
				Int("done", i+1).
				Int("of", len(names)).
				Int("fetched", stats.Fetched).
				Msg("warming artist cache")
		}
	}
	c.log.Info().
		Int("requested", stats.Requested).
		Int("hits", stats.Hits).
		Int("fetched", stats.Fetched).
		Int("empty", stats.Empty).
		Msg("warmed artist cache")
	return stats, nil
}
