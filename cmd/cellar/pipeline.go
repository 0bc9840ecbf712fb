package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/ochairo/cellar/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/cellar/internal/domain-orchestrators"
	"github.com/ochairo/cellar/internal/domain/interfaces"
	igateways "github.com/ochairo/cellar/internal/domain/interfaces/gateways"
	"github.com/ochairo/cellar/internal/domain/services"
	"github.com/ochairo/cellar/internal/external-adapters/gpg"
	"github.com/ochairo/cellar/internal/external-adapters/logging"
	"github.com/ochairo/cellar/internal/external-adapters/xml"
)

// newLogger builds the CLI logger: stderr plus a size-rotated log file.
func newLogger(v *viper.Viper) interfaces.Logger {
	return logging.NewRotating(logging.RotationConfig{
		Filename:   v.GetString(logFilenameKey),
		MaxSizeMB:  v.GetInt(logMaxSizeKey),
		MaxBackups: v.GetInt(logMaxBackupsKey),
		MaxAgeDays: v.GetInt(logMaxAgeKey),
		Compress:   v.GetBool(logCompressKey),
	}, slog.Level(v.GetInt(logLevelKey)))
}

// newPipeline wires the full acquisition pipeline from configuration. When
// keyringPath is set every downloaded binary must carry a valid detached
// signature.
func newPipeline(v *viper.Viper, logger interfaces.Logger, keyringPath string) (*orchestrators.InjectOrchestrator, *gateways.DirectorySearchPath, error) {
	var signatures igateways.SignatureVerifier
	if keyringPath != "" {
		verifier := gpg.NewVerifier()
		if err := verifier.ImportKeyFromFile(keyringPath); err != nil {
			return nil, nil, fmt.Errorf("failed to load keyring: %w", err)
		}
		signatures = verifier
	}

	librariesDir := v.GetString(cacheLibrariesKey)
	descriptors := gateways.NewDescriptorCache(librariesDir, xml.NewPomParser(), logger)
	resolver := services.NewResolver(descriptors, logger)
	downloader := gateways.NewArtifactDownloader(librariesDir, signatures, logger)
	assets := gateways.NewAssetFetcher(v.GetString(cacheAssetsKey), logger)
	searchPath := gateways.NewDirectorySearchPath(v.GetString(runtimeDirKey), logger)

	markers := presentMarkers(v)
	probe := igateways.PresenceProbeFunc(func(marker string) bool {
		return markers[marker]
	})

	orchestrator := orchestrators.NewInjectOrchestrator(
		resolver,
		downloader,
		gateways.NewRelocationStore(),
		assets,
		gateways.NewVersionResolver(logger),
		repositoryOverrides{v: v},
		searchPath,
		probe,
		orchestrators.InjectOrchestratorConfig{Central: v.GetString(repositoryCentralKey)},
		logger,
	)
	return orchestrator, searchPath, nil
}
