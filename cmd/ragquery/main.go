// Package main is the entry point for the FinRAG query application.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/finrag/internal/query"
)

func main() {
	query.NewApp().Run()
}
