package main

import (
	"os"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
