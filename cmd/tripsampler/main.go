package main

import (
	"os"

	"github.com/wonny/tripsampler/cmd/tripsampler/commands"
)

// main is the entry point for the tripsampler CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/tripsampler [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
