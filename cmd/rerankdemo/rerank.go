package rerankdemo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundprediction/rerank-demo/pkg/config"
	"github.com/soundprediction/rerank-demo/pkg/rerank"
	"github.com/soundprediction/rerank-demo/pkg/server/dto"
	"github.com/soundprediction/rerank-demo/pkg/types"
)

// rerankOptions collects the inputs of one CLI reranking run.
type rerankOptions struct {
	Query        string
	Passages     []string
	PassagesFile string
	TopK         string
	Input        string
	JSON         bool
}

var rerankOpts rerankOptions

var rerankCmd = &cobra.Command{
	Use:   "rerank",
	Short: "Rerank candidate passages against a query",
	Long: `Rerank candidate passages against a query and print the same text the
WebUI shows.

Passages come from repeated --passage flags, a newline-separated file
(--passages-file, "-" for stdin), or a YAML request file (--input):

  query: what is a panda
  passages:
    - The giant panda is a bear species endemic to China.
    - Pandas eat bamboo.
  top_k: 3

Flags override the values of the request file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runRerank(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, rerankOpts)
	},
}

func init() {
	rootCmd.AddCommand(rerankCmd)

	rerankCmd.Flags().StringVarP(&rerankOpts.Query, "query", "q", "", "Query text")
	rerankCmd.Flags().StringArrayVarP(&rerankOpts.Passages, "passage", "p", nil, "Candidate passage (repeatable)")
	rerankCmd.Flags().StringVar(&rerankOpts.PassagesFile, "passages-file", "", "File with one candidate per line (- for stdin)")
	rerankCmd.Flags().StringVarP(&rerankOpts.TopK, "top-k", "k", "", "Number of results to show (default 5)")
	rerankCmd.Flags().StringVarP(&rerankOpts.Input, "input", "i", "", "YAML request file")
	rerankCmd.Flags().BoolVar(&rerankOpts.JSON, "json", false, "Print the structured result as JSON")
}

// resolve merges the request file with the flag values.
func (o rerankOptions) resolve(stdin io.Reader) (query, block string, topK rerank.TopK, err error) {
	if o.Input != "" {
		req, err := loadRequest(o.Input)
		if err != nil {
			return "", "", rerank.TopK{}, err
		}
		query, block, topK = req.Query, string(req.Passages), req.topK()
	}

	if o.Query != "" {
		query = o.Query
	}
	if o.TopK != "" {
		topK = rerank.ParseTopK(o.TopK)
	}

	var lines []string
	if o.PassagesFile != "" {
		data, err := readPassages(o.PassagesFile, stdin)
		if err != nil {
			return "", "", rerank.TopK{}, err
		}
		lines = append(lines, data)
	}
	lines = append(lines, o.Passages...)
	if len(lines) > 0 {
		block = strings.Join(lines, "\n")
	}
	return query, block, topK, nil
}

func readPassages(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if stdin == nil {
			return "", errors.New("no stdin available for passages")
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read passages: %w", err)
	}
	return string(data), nil
}

func runRerank(ctx context.Context, stdin io.Reader, w io.Writer, cfg *config.Config, opts rerankOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "cli")

	query, block, topK, err := opts.resolve(stdin)
	if err != nil {
		return err
	}

	r, err := newReranker(cfg, nil)
	if err != nil {
		return err
	}

	res, err := r.Build(ctx, query, block, topK)
	if err != nil {
		return fmt.Errorf("rerank: %w", err)
	}
	output := r.Render(res)

	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewRerankResponse(res, output))
	}
	_, err = fmt.Fprintln(w, output)
	return err
}
