package main

import (
	"os"

	"github.com/xinyangwy/PhotoWatermark2-wzl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
