package main

import (
	"os"

	"github.com/soundprediction/rerank-demo/cmd/rerankdemo"
)

func main() {
	if err := rerankdemo.Execute(); err != nil {
		os.Exit(1)
	}
}
