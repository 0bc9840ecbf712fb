package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/cellar/internal/domain/entities"
)

func runAsset(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("asset", flag.ExitOnError)
	var (
		url      = fs.String("url", "", "Source address of the asset")
		checksum = fs.String("checksum", "", "Expected content digest (hex, SHA-1 or SHA-256)")
		name     = fs.String("name", "", "Cache-relative target path (default: sharded by checksum)")
		archived = fs.Bool("archived", false, "Asset is packed in a zip container at <url>.zip")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cellar asset --url <address> --checksum <digest> [options]

Fetch a single static asset into the asset cache and verify its checksum.

Examples:
  cellar asset --url https://example.org/data/words.txt --checksum 3c9e...
  cellar asset --url https://example.org/data/model.bin --checksum ab12... --archived

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if *url == "" || *checksum == "" {
		fs.Usage()
		os.Exit(1)
	}

	v, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(v)

	orchestrator, _, err := newPipeline(v, logger, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	asset := entities.Asset{Name: *name, Checksum: *checksum, URL: *url, Archived: *archived}
	if err := orchestrator.InjectAsset(ctx, asset); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cached asset %s\n", asset.CachePath())
}
