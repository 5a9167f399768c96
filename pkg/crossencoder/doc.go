/*
Package crossencoder provides cross-encoder style ranking of passages
against a query.

A cross-encoder scores every query/passage pair and the passages are then
presented in descending score order. This package defines the Client
interface such scorers implement and ships a placeholder provider used by
the demo UI while no model weights are loaded.

# Placeholder Reranker

PlaceholderRerankerClient keeps the passages in the order they were given
and assigns each a score that decays linearly from TopScore:

	client := crossencoder.NewPlaceholderRerankerClient(crossencoder.DefaultConfig(crossencoder.ProviderPlaceholder))
	results, err := client.Rank(ctx, "what is a giant panda?", []string{
		"The giant panda is a bear native to China",
		"Pandas is a Python data analysis library",
	})
	// results[0].Score == 0.95, results[1].Score == 0.90

# Factory Function

	client, err := crossencoder.NewClient(crossencoder.ClientConfig{
		Provider: crossencoder.ProviderPlaceholder,
		Config:   crossencoder.DefaultConfig(crossencoder.ProviderPlaceholder),
	})

An empty provider selects the placeholder; anything else is rejected.
*/
package crossencoder
