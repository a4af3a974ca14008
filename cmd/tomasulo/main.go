// Package main provides the entry point for the Tomasulo simulator.
// Tomasulo is a cycle-accurate out-of-order processor simulator.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/tomasulo/core"
	"github.com/sarchlab/tomasulo/parser"
	"github.com/sarchlab/tomasulo/report"
)

var (
	verbose    = flag.Bool("v", false, "Verbose output")
	configPath = flag.String("config", "", "Path to a JSON machine-config override")
	maxCycles  = flag.Uint64("max-cycles", 1_000_000, "Cycle ceiling before the simulation is declared non-terminating")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tomasulo [options] <input-file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	os.Exit(run(inputPath))
}

func run(inputPath string) int {
	prog, err := parser.Load(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing input file: %v\n", err)
		return 1
	}

	cfg := prog.Config
	if *configPath != "" {
		override, err := core.LoadConfigJSON(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading machine config: %v\n", err)
			return 1
		}
		cfg = override
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", inputPath)
		fmt.Printf("Instructions: %d\n", len(prog.Instructions))
		fmt.Printf("ROB entries: %d\n", cfg.ROBEntries)
	}

	predictor := core.NewOneBitPredictor()
	orch := core.NewOrchestrator(cfg, prog.Instructions, prog.ARF, prog.Memory, predictor)
	engine := core.NewEngine("Tomasulo.Pipeline", orch, *maxCycles)
	engine.Run()

	outPath := outputPath(inputPath)
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		return 1
	}
	defer out.Close()

	if err := report.Write(out, orch); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("Cycles: %d\n", orch.Cycle())
		stats := orch.PredictorStats()
		if stats.Predictions > 0 {
			fmt.Printf("Branch prediction accuracy: %.2f%% (%d/%d)\n",
				stats.Accuracy()*100, stats.Predictions-stats.Mispredictions, stats.Predictions)
		}
		fmt.Printf("Output: %s\n", outPath)
	}

	return 0
}

// outputPath builds "<input-stem>_output.txt".
func outputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"_output.txt")
}
