package main

import (
	"os"

	"github.com/cloud-ru/loanstore-go/cmd/loanstore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
