package main

import (
	"context"
	"os"

	"github.com/mmynk/splitogram/pkg/logging"
)

func main() {
	// Colored logging until the configuration is loaded
	logging.Setup()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
