// Package main provides the cellar CLI for provisioning runtime libraries
// and assets.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "inject":
		runInject(ctx, os.Args[2:])
	case "resolve":
		runResolve(ctx, os.Args[2:])
	case "asset":
		runAsset(ctx, os.Args[2:])
	case "list":
		runList(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cellar - runtime library and asset provisioner

Usage:
  cellar <command> [options]

Commands:
  inject    Provision every dependency and asset a consumer declares
  resolve   Print the transitive closure of a coordinate without injecting
  asset     Fetch and verify a single static asset
  list      Show the cached libraries and assets

Use "cellar <command> --help" for more information about a command.`)
}
