package rerankdemo

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/soundprediction/rerank-demo/pkg/config"
	"github.com/soundprediction/rerank-demo/pkg/crossencoder"
	"github.com/soundprediction/rerank-demo/pkg/logger"
	"github.com/soundprediction/rerank-demo/pkg/messages"
	"github.com/soundprediction/rerank-demo/pkg/rerank"
	"github.com/soundprediction/rerank-demo/pkg/telemetry"
)

// newLogger builds the colour logger and, when configured, wraps it with the
// Parquet error sink. The returned flush writes buffered telemetry.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	handler := logger.NewColorHandler(w, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.Log.Level),
	})

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(handler), func() error { return nil }, nil
	}

	parquetHandler, err := telemetry.NewParquetHandler(handler, cfg.Telemetry.ParquetPath, cfg.Telemetry.BatchSize)
	if err != nil {
		return nil, nil, fmt.Errorf("init telemetry: %w", err)
	}
	return slog.New(parquetHandler), parquetHandler.Flush, nil
}

// newReranker creates the cross-encoder client named by the model config.
func newReranker(cfg *config.Config, log *slog.Logger) (*rerank.Reranker, error) {
	client, err := crossencoder.NewClient(crossencoder.ClientConfig{
		Provider: crossencoder.Provider(cfg.Model.Provider),
		Config: crossencoder.Config{
			Model:     cfg.Model.Name,
			TopScore:  cfg.Model.TopScore,
			ScoreStep: cfg.Model.ScoreStep,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create reranker: %w", err)
	}
	return rerank.New(client, messages.For(cfg.UI.Language), log), nil
}
