package main

import (
	"os"

	"github.com/SREYASABU/Tubenor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
