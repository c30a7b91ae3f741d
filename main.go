package main

import (
	"fmt"
	"os"

	"github.com/subosito/gotenv"
)

func main() {
	// .env is optional; real environment variables win
	_ = gotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
