// Package websearch provides torrent search providers for the add-torrent
// flow. Each provider queries one public index; Multi fans a query out to
// all of them and merges whatever comes back.
package websearch

import "context"

// Result is a single torrent found on a provider
type Result struct {
	Name     string
	Size     string
	Seeders  int
	Leechers int
	Magnet   string
	Source   string
}

// Provider is a torrent search source
type Provider interface {
	// Name returns the source name
	Name() string

	// Search queries the source for torrents
	Search(ctx context.Context, query string) ([]Result, error)
}

// Multi aggregates results from multiple providers
type Multi struct {
	providers []Provider
}

// NewMulti creates a searcher that queries multiple sources
func NewMulti(providers ...Provider) *Multi {
	return &Multi{providers: providers}
}

// Search queries all providers and merges results. Failed sources are
// skipped so one dead index doesn't sink the whole search.
func (m *Multi) Search(ctx context.Context, query string) ([]Result, error) {
	var results []Result

	for _, p := range m.providers {
		found, err := p.Search(ctx, query)
		if err != nil {
			continue
		}
		results = append(results, found...)
	}

	return results, nil
}
