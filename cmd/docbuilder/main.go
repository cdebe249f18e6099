// Package main is the entry point for the FinRAG document builder.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/finrag/internal/docbuilder"
)

func main() {
	docbuilder.NewApp().Run()
}
