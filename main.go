// Package main provides the entry point for alu8.
// alu8 is a cycle-level model of an 8-bit ALU with a registered output stage,
// built on the Akita simulation framework.
//
// For the full CLI, use: go run ./cmd/alusim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("alu8 - 8-bit ALU Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: alusim [options] <stimulus>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -trace     Print the registered outputs of every cycle")
	fmt.Println("  -v         Log verbosity")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/alusim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/alusim' instead.")
	}
}
