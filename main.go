// Package main provides the entry point for Tomasulo.
// Tomasulo is a cycle-accurate out-of-order processor simulator.
//
// For the full CLI, use: go run ./cmd/tomasulo
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("Tomasulo - Out-of-Order Processor Simulator")
	fmt.Println("")
	fmt.Println("Usage: tomasulo [options] <input-file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to a JSON machine-config override")
	fmt.Println("  -max-cycles  Cycle ceiling before the simulation is declared non-terminating")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasulo' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomasulo' instead.")
	}
}
