package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/cellar/internal/domain/entities"
)

func runResolve(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	var (
		repository      = fs.String("repository", "", "Repository address or logical name (default: central)")
		scopes          = fs.String("scopes", "", "Comma-separated scope set (default: runtime,compile)")
		noTransitive    = fs.Bool("no-transitive", false, "Resolve only the root coordinate")
		includeOptional = fs.Bool("include-optional", false, "Include children marked optional")
		ignoreErrors    = fs.Bool("ignore-errors", false, "Drop unresolvable branches instead of failing")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cellar resolve <group:artifact:version> [options]

Print the deduplicated transitive closure of a coordinate, root first, in
the order injection would use. Nothing is downloaded beyond descriptors.

Examples:
  cellar resolve org.example:lib:1.0.0
  cellar resolve org.example:lib:latest --scopes runtime
  cellar resolve org.example:lib:1.0.0 --no-transitive

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	if fs.NArg() == 0 {
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

	var scopeSet []entities.Scope
	if *scopes != "" {
		for _, s := range strings.Split(*scopes, ",") {
			scopeSet = append(scopeSet, entities.ParseScope(s))
		}
	}

	closure, err := orchestrator.Resolve(ctx, entities.Dependency{
		Coordinate:      fs.Arg(0),
		Repository:      *repository,
		IgnoreOptional:  !*includeOptional,
		IgnoreException: *ignoreErrors,
		Transitive:      !*noTransitive,
		Scopes:          scopeSet,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, dep := range closure {
		fmt.Printf("%s (%s)\n", dep.Coordinate, dep.Scope)
	}
}
