package main

import (
	"log"

	"github.com/computerscienceiscool/ghpages-local/pkg/cli"
)

func main() {
	log.SetFlags(0)
	if err := cli.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
