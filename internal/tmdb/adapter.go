package tmdb

import (
	"context"
	"fmt"

	"solidflix/internal/lookup"
)

// Recommendation sources.
const (
	SourceRecommendations = "recommendations"
	SourceSimilar         = "similar"
)

// MetadataAdapter exposes a Searcher as a lookup.MetadataService.
type MetadataAdapter struct {
	searcher Searcher
	source   string
}

var _ lookup.MetadataService = (*MetadataAdapter)(nil)

// NewMetadataAdapter wraps searcher. source selects which endpoint backs
// Recommendations; an empty value means SourceRecommendations.
func NewMetadataAdapter(searcher Searcher, source string) (*MetadataAdapter, error) {
	switch source {
	case "":
		source = SourceRecommendations
	case SourceRecommendations, SourceSimilar:
	default:
		return nil, fmt.Errorf("unsupported recommendation source %q", source)
	}
	return &MetadataAdapter{searcher: searcher, source: source}, nil
}

// SearchMovie returns search results in TMDB relevance order.
func (a *MetadataAdapter) SearchMovie(ctx context.Context, query string) ([]lookup.Movie, error) {
	resp, err := a.searcher.SearchMovie(ctx, query)
	if err != nil {
		return nil, err
	}
	return toMovies(resp), nil
}

// Recommendations returns titles related to the movie with the given id.
func (a *MetadataAdapter) Recommendations(ctx context.Context, id int64) ([]lookup.Movie, error) {
	var (
		resp *Response
		err  error
	)
	if a.source == SourceSimilar {
		resp, err = a.searcher.GetSimilarMovies(ctx, id)
	} else {
		resp, err = a.searcher.GetMovieRecommendations(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return toMovies(resp), nil
}

func toMovies(resp *Response) []lookup.Movie {
	if resp == nil {
		return nil
	}
	out := make([]lookup.Movie, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, lookup.Movie{ID: r.ID, Title: r.Title})
	}
	return out
}
