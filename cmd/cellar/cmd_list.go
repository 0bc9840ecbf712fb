package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cellar list

Show the cached libraries and assets.
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}
	_ = ctx

	v, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	libraries := listFiles(v.GetString(cacheLibrariesKey), func(name string) bool {
		return strings.HasSuffix(name, ".jar")
	})
	assets := listFiles(v.GetString(cacheAssetsKey), func(string) bool { return true })

	fmt.Printf("Libraries (%d):\n", len(libraries))
	for _, lib := range libraries {
		fmt.Printf("  %s\n", lib)
	}
	fmt.Printf("Assets (%d):\n", len(assets))
	for _, asset := range assets {
		fmt.Printf("  %s\n", asset)
	}
}

func listFiles(dir string, keep func(string) bool) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !keep(d.Name()) {
			return nil
		}
		if rel, relErr := filepath.Rel(dir, path); relErr == nil {
			files = append(files, rel)
		}
		return nil
	})
	return files
}
