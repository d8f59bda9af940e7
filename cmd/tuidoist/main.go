// Package main is the entry point for the Tuidoist terminal client.
package main

import (
	"os"

	"github.com/hy4ri/tuidoist/cmd/tuidoist/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
