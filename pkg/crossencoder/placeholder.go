package crossencoder

import "context"

// PlaceholderRerankerClient stands in for a real cross-encoder. It keeps the
// input order and scores rank i as TopScore - ScoreStep*(i-1). The query is
// ignored.
type PlaceholderRerankerClient struct {
	config Config
}

// NewPlaceholderRerankerClient creates a placeholder client. Zero fields in
// config take the ProviderPlaceholder defaults.
func NewPlaceholderRerankerClient(config Config) *PlaceholderRerankerClient {
	defaults := DefaultConfig(ProviderPlaceholder)
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.TopScore == 0 {
		config.TopScore = defaults.TopScore
	}
	if config.ScoreStep == 0 {
		config.ScoreStep = defaults.ScoreStep
	}
	return &PlaceholderRerankerClient{config: config}
}

// Rank implements Client.
func (c *PlaceholderRerankerClient) Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ranked := make([]RankedPassage, len(passages))
	for i, p := range passages {
		ranked[i] = RankedPassage{
			Rank:    i + 1,
			Index:   i,
			Passage: p,
			Score:   c.Score(i + 1),
		}
	}
	return ranked, nil
}

// Score returns the placeholder score for a 1-based rank.
func (c *PlaceholderRerankerClient) Score(rank int) float64 {
	return c.config.TopScore - float64(rank-1)*c.config.ScoreStep
}

// Model implements Client.
func (c *PlaceholderRerankerClient) Model() string {
	return c.config.Model
}

// Close implements Client.
func (c *PlaceholderRerankerClient) Close() error {
	return nil
}
