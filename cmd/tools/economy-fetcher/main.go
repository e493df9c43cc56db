// cmd/tools/economy-fetcher/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"country-match-workers/internal/common/config"
	"country-match-workers/internal/common/logger"
	"country-match-workers/internal/dataset"
	"country-match-workers/internal/enrichment"
)

func main() {
	enrichCmd := flag.NewFlagSet("enrich", flag.ExitOnError)
	enrichIn := enrichCmd.String("in", "data/countries.json", "Input dataset (.json or .csv)")
	enrichOut := enrichCmd.String("out", "data/countries.enriched.json", "Output dataset (.json)")
	enrichConfig := enrichCmd.String("config", "", "Optional config file for API settings")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportIn := reportCmd.String("in", "data/countries.json", "Input dataset (.json or .csv)")
	reportOut := reportCmd.String("out", "data/economy_situation.json", "Output report (.json)")
	reportConfig := reportCmd.String("config", "", "Optional config file for API settings")

	deriveCmd := flag.NewFlagSet("derive", flag.ExitOnError)
	deriveDir := deriveCmd.String("dir", "data/raw", "Directory holding the raw index CSV files")
	deriveOut := deriveCmd.String("out", "data/countries.json", "Output dataset (.json)")
	deriveMin := deriveCmd.Float64("min", 0, "Lowest possible raw index score")
	deriveMax := deriveCmd.Float64("max", 100, "Highest possible raw index score")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "enrich":
		enrichCmd.Parse(os.Args[2:])
		err = runEnrich(ctx, *enrichConfig, *enrichIn, *enrichOut)
	case "derive":
		deriveCmd.Parse(os.Args[2:])
		err = runDerive(*deriveDir, *deriveOut, dataset.DeriveConfig{ScaleMin: *deriveMin, ScaleMax: *deriveMax})
	case "report":
		reportCmd.Parse(os.Args[2:])
		err = runReport(ctx, *reportConfig, *reportIn, *reportOut)
	default:
		help()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: economy-fetcher <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  derive   Build a country dataset from raw 0-100 index CSV files")
	fmt.Println("  enrich   Fill code, population and GDP per capita into a country dataset")
	fmt.Println("  report   Write every economy indicator per country to a separate report")
}

func newClient(configPath string) (*enrichment.Client, logger.Logger, error) {
	cfg := enrichment.DefaultConfig()
	log := logger.NewStructured("info", "console")

	if configPath != "" {
		appCfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = enrichment.FromAppConfig(appCfg.Enrichment)
		log = logger.NewStructured(appCfg.Logging.Level, "console")
	}
	return enrichment.NewClient(cfg, nil, log), log, nil
}

func runEnrich(ctx context.Context, configPath, in, out string) error {
	client, log, err := newClient(configPath)
	if err != nil {
		return err
	}

	countries, err := dataset.NewFileSource(in).Countries(ctx)
	if err != nil {
		return err
	}
	log.Info("enriching dataset", map[string]interface{}{"input": in, "countries": len(countries)})

	enriched := client.Enrich(ctx, countries)
	if err := writeJSON(out, enriched); err != nil {
		return err
	}

	withCode := 0
	for _, c := range enriched {
		if c.Code != "" {
			withCode++
		}
	}
	log.Info("dataset written", map[string]interface{}{
		"output":   out,
		"total":    len(enriched),
		"resolved": withCode,
	})
	return ctx.Err()
}

func runDerive(dir, out string, cfg dataset.DeriveConfig) error {
	log := logger.NewStructured("info", "console")
	if cfg.ScaleMax <= cfg.ScaleMin {
		return fmt.Errorf("max (%v) must be above min (%v)", cfg.ScaleMax, cfg.ScaleMin)
	}

	raws, err := dataset.LoadIndexDir(dir, log)
	if err != nil {
		return err
	}
	countries := dataset.DeriveCountries(raws, cfg)
	if err := writeJSON(out, countries); err != nil {
		return err
	}

	costs := map[string]int{}
	for _, c := range countries {
		if v, ok := c.CostLevel.Value(); ok {
			costs[string(dataset.CostCategory(v))]++
		}
	}
	log.Info("dataset derived", map[string]interface{}{
		"output":    out,
		"countries": len(countries),
		"coverage":  dataset.Coverage(countries),
		"costBands": costs,
	})
	return nil
}

func runReport(ctx context.Context, configPath, in, out string) error {
	client, log, err := newClient(configPath)
	if err != nil {
		return err
	}

	countries, err := dataset.NewFileSource(in).Countries(ctx)
	if err != nil {
		return err
	}

	report := make([]enrichment.EconomyData, 0, len(countries))
	failed := 0
	for i, c := range countries {
		if ctx.Err() != nil {
			break
		}
		log.Info("processing country", map[string]interface{}{
			"country":  c.Name,
			"position": i + 1,
			"total":    len(countries),
		})
		row := client.Economy(ctx, c.Name)
		if row.Error != "" {
			failed++
		}
		report = append(report, row)
	}

	if err := writeJSON(out, report); err != nil {
		return err
	}
	log.Info("report written", map[string]interface{}{
		"output":     out,
		"processed":  len(report),
		"successful": len(report) - failed,
		"failed":     failed,
	})
	return ctx.Err()
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
