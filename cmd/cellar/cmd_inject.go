package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/cellar/internal/domain/interfaces/repositories"
	"github.com/ochairo/cellar/internal/external-adapters/yaml"
)

func runInject(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("inject", flag.ExitOnError)
	var (
		manifestFile = fs.String("manifest", "", "Path to a single manifest file")
		manifestsDir = fs.String("manifests-dir", "manifests", "Path to manifests directory")
		keyring      = fs.String("keyring", "", "GPG keyring file; enables signature verification of downloaded binaries")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cellar inject <consumer> [options]
       cellar inject --manifest <file> [options]

Provision every dependency and asset the consumer's manifest declares:
resolve the transitive closure, download and verify binaries, apply
namespace relocation, and expose the result on the runtime search path.

Examples:
  cellar inject my-plugin                    # manifests/my-plugin.yaml
  cellar inject --manifest ./cellar-deps.yaml
  cellar inject my-plugin --keyring ./trusted-keys.asc

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	v, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(v)

	var manifest *repositories.Manifest
	switch {
	case *manifestFile != "":
		manifest, err = yaml.NewManifestParser().ParseFile(*manifestFile)
	case fs.NArg() > 0:
		manifest, err = yaml.NewManifestRepository(*manifestsDir).GetManifest(ctx, fs.Arg(0))
	default:
		fs.Usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	orchestrator, searchPath, err := newPipeline(v, logger, *keyring)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := orchestrator.Inject(ctx, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Provisioned %d dependencies and %d assets into %s\n",
		len(manifest.Dependencies), len(manifest.Assets), searchPath.Dir())
}
