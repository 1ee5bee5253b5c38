package main

import (
	"fmt"
	"os"

	"github.com/bretstarr2024/TSC-PRIMARY-WEBSITE-sub002/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
