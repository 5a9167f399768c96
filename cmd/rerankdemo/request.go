package rerankdemo

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soundprediction/rerank-demo/pkg/rerank"
)

// rerankRequest is the YAML form accepted by `rerank --input`.
//
//	query: what is a panda
//	passages:
//	  - The giant panda is a bear species endemic to China.
//	  - Pandas eat bamboo.
//	top_k: 3
//
// passages may also be a single newline-separated block.
type rerankRequest struct {
	Query    string       `yaml:"query"`
	Passages passageBlock `yaml:"passages"`
	TopK     *topKValue   `yaml:"top_k"`
}

// passageBlock holds the newline-separated candidate block.
type passageBlock string

// UnmarshalYAML accepts a scalar block or a sequence of passages.
func (p *passageBlock) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = passageBlock(node.Value)
		return nil
	case yaml.SequenceNode:
		lines := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: passage must be a string", item.Line)
			}
			lines = append(lines, item.Value)
		}
		*p = passageBlock(strings.Join(lines, "\n"))
		return nil
	default:
		return fmt.Errorf("line %d: passages must be a string or a list", node.Line)
	}
}

// topKValue keeps only numeric top_k values. Anything else is unusable and
// falls back to the default.
type topKValue struct {
	rerank.TopK
}

// UnmarshalYAML decodes integer and float scalars. Large integers clamp
// the same way as form values.
func (t *topKValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return nil
	}
	switch node.ShortTag() {
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil
		}
		t.TopK = rerank.TopKFromFloat(f)
	}
	return nil
}

func (r *rerankRequest) topK() rerank.TopK {
	if r.TopK == nil {
		return rerank.TopK{}
	}
	return r.TopK.TopK
}

// loadRequest reads a YAML request file.
func loadRequest(path string) (*rerankRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request file: %w", err)
	}
	return parseRequest(data)
}

func parseRequest(data []byte) (*rerankRequest, error) {
	var req rerankRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &req, nil
}
