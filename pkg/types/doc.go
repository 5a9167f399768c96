// Package types defines values shared across package boundaries, such as
// the context keys that carry request metadata from the HTTP layer to the
// reranker and the telemetry handler.
package types
