package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"autostat/adapters/tabfile"
	"autostat/app"
	"autostat/internal/config"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	var (
		target  = flag.String("target", "", "target column (default: last value column)")
		asJSON  = flag.Bool("json", false, "emit the full result envelope as JSON")
		horizon = flag.Int("horizon", 0, "forecast periods (overrides AUTOSTAT_HORIZON)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: autostat [flags] <data.csv|data.xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *horizon > 0 {
		cfg.Horizon = *horizon
	}

	ds, err := tabfile.NewReader(flag.Arg(0)).Read()
	if err != nil {
		log.Fatalf("read %s: %v", flag.Arg(0), err)
	}

	result, err := app.NewPipeline(cfg).Run(context.Background(), ds, *target)
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}

	if *asJSON {
		printJSON(result)
		return
	}
	printSummary(result)
}
