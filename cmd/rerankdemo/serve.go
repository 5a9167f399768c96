package rerankdemo

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/rerank-demo/pkg/config"
	"github.com/soundprediction/rerank-demo/pkg/server"
	"github.com/soundprediction/rerank-demo/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reranking WebUI",
	Long: `Start the local reranking WebUI.

The server provides:
- the demo page at / with the load-model and rerank actions
- a JSON API under /api/v1 (status, load-model, rerank)
- health checks at /health, /live and /ready

Configuration can be provided through config files, environment variables
(RERANK_DEMO_*), or command-line flags.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
	serveMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Server host")
	serveCmd.Flags().IntVar(&servePort, "port", 8761, "Server port")
	serveCmd.Flags().StringVar(&serveMode, "mode", "release", "Server mode (debug, release, test)")
	serveCmd.Flags().String("model-name", "BGE-Reranker-Large", "Model name shown in the UI")
	serveCmd.Flags().Int("max-top-k", 20, "Upper bound of the Top-K slider")
	serveCmd.Flags().String("telemetry-parquet-path", "", "Directory for Parquet error telemetry (disabled when empty)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, flush, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		if err := flush(); err != nil {
			log.Error("Failed to flush telemetry", "error", err)
		}
	}()

	reranker, err := newReranker(cfg, log)
	if err != nil {
		return err
	}

	srv := server.New(cfg, reranker, log)
	if err := srv.Setup(); err != nil {
		return fmt.Errorf("failed to set up server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := utils.SafeGoWithResult(srv.Start)

	select {
	case err := <-serverErrChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		log.Info("Received signal", "signal", sig.String())

		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("Server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serveMode
	}
	if cmd.Flags().Changed("model-name") {
		cfg.Model.Name, _ = cmd.Flags().GetString("model-name")
	}
	if cmd.Flags().Changed("max-top-k") {
		cfg.UI.MaxTopK, _ = cmd.Flags().GetInt("max-top-k")
		if cfg.UI.DefaultTopK > cfg.UI.MaxTopK {
			cfg.UI.DefaultTopK = cfg.UI.MaxTopK
		}
	}
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
