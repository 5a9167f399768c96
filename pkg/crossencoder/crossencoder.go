package crossencoder

import (
	"context"
	"fmt"
)

// Provider represents the type of cross-encoder provider
type Provider string

const (
	// ProviderPlaceholder assigns fixed, linearly decaying scores in input order.
	ProviderPlaceholder Provider = "placeholder"
)

// Config holds settings shared by all providers
type Config struct {
	Model string `json:"model" mapstructure:"name"`

	// TopScore is the score given to the first passage.
	TopScore float64 `json:"top_score" mapstructure:"top_score"`

	// ScoreStep is subtracted from the score for each following rank.
	ScoreStep float64 `json:"score_step" mapstructure:"score_step"`
}

// RankedPassage is a passage with the score assigned to it.
type RankedPassage struct {
	// Rank is 1-based.
	Rank    int     `json:"rank"`
	Index   int     `json:"index"`
	Passage string  `json:"passage"`
	Score   float64 `json:"score"`
}

// Client ranks passages against a query.
type Client interface {
	// Rank returns the passages ordered by descending score.
	Rank(ctx context.Context, query string, passages []string) ([]RankedPassage, error)

	// Model names the model behind the client.
	Model() string

	Close() error
}

// ClientConfig holds configuration for creating cross-encoder clients
type ClientConfig struct {
	Provider Provider `json:"provider"`
	Config   Config   `json:"config"`
}

// NewClient creates a new cross-encoder client based on the provider type
func NewClient(clientConfig ClientConfig) (Client, error) {
	switch clientConfig.Provider {
	case ProviderPlaceholder, "":
		return NewPlaceholderRerankerClient(clientConfig.Config), nil
	default:
		return nil, fmt.Errorf("unsupported cross-encoder provider: %s", clientConfig.Provider)
	}
}

// DefaultConfig returns a default configuration for the given provider
func DefaultConfig(provider Provider) Config {
	switch provider {
	case ProviderPlaceholder:
		return Config{
			Model:     "BGE-Reranker-Large",
			TopScore:  0.95,
			ScoreStep: 0.05,
		}
	default:
		return Config{}
	}
}
