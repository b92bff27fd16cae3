// Package main is the entry point for the jfix CLI tool.
package main

import (
	"github.com/anthropics/jfix/internal/cmd"
)

func main() {
	cmd.Execute()
}
