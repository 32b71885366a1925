package main

import (
	"os"

	"github.com/abhisek/reflectapp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
