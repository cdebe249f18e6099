// Package main is the entry point for the FinRAG vector indexer.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/finrag/internal/indexer"
)

func main() {
	indexer.NewApp().Run()
}
