package rerankdemo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/rerank-demo/pkg/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the simulated model loading status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		r, err := newReranker(cfg, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.LoadModel())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
