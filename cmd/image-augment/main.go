package main

import (
	"os"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	// Initialize logger before anything else can report.
	zlog.Init()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
