package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"autostat/app"
)

func printJSON(result *app.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}

func printSummary(result *app.Result) {
	fmt.Printf("run %s  target=%s\n", result.RunID, result.Target)
	fmt.Printf("structure=%s scale=%s linear=%t rows=%d cols=%d missing=%.1f%%\n",
		result.Metadata.Structure, result.Metadata.Scale, result.Metadata.IsLinear,
		result.Metadata.Rows, result.Metadata.Cols, 100*result.Metadata.MissingFraction)

	fmt.Println("\nassumptions:")
	for _, t := range result.Tests {
		switch {
		case !t.Ran():
			fmt.Printf("  %-24s skipped: %s\n", t.Name, t.Err)
		case t.Passed:
			fmt.Printf("  %-24s pass    %s\n", t.Name, t.Detail)
		default:
			fmt.Printf("  %-24s FAIL    %s\n", t.Name, t.Detail)
		}
	}

	fmt.Println("\ncandidates:")
	for _, m := range result.Models {
		if m.OK() {
			fmt.Printf("  %-16s fitness=%.4f (%s)\n", m.Family, m.Fitness, m.FitnessKind)
		} else {
			fmt.Printf("  %-16s failed: %s\n", m.Family, m.Err)
		}
	}

	if result.Best == nil {
		fmt.Println("\nno viable model")
	} else {
		fmt.Printf("\nbest: %s\n", result.Best.Family)
	}

	if result.Forecast.Empty() {
		fmt.Printf("forecast: none (%s)\n", result.Forecast.Reason)
		return
	}
	fmt.Println("\nforecast:")
	for _, r := range result.Forecast.Rows {
		fmt.Printf("  t+%-3d %12.4f  [%12.4f, %12.4f]\n", r.Period, r.Point, r.LowerCI, r.UpperCI)
	}
}
