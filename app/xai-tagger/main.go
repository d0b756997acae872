package main

import (
	"os"

	"veginReco/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("xai-tagger failed", "error", err)
		os.Exit(1)
	}
}
