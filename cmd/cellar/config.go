package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/ochairo/cellar/internal/domain/entities"
)

const (
	configBaseName = "cellar"
	envPrefix      = "CELLAR"

	cacheLibrariesKey = "cache.libraries"
	cacheAssetsKey    = "cache.assets"
	runtimeDirKey     = "runtime.dir"
	runtimePresentKey = "runtime.present"

	repositoryCentralKey   = "repository.central"
	repositoryOverridesKey = "repository.overrides"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLibrariesDir = ".cellar/libraries"
	defaultAssetsDir    = ".cellar/assets"
	defaultRuntimeDir   = ".cellar/runtime"

	defaultLogFilename   = ".cellar/cellar.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// loadConfig builds the viper instance backing cache locations, the central
// repository address and the persisted repo-<name> override store. A missing
// config file is fine; defaults and CELLAR_* environment variables apply.
func loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(configBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/cellar")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(cacheLibrariesKey, defaultLibrariesDir)
	v.SetDefault(cacheAssetsKey, defaultAssetsDir)
	v.SetDefault(runtimeDirKey, defaultRuntimeDir)
	v.SetDefault(repositoryCentralKey, entities.CentralRepository)
	v.SetDefault(logFilenameKey, defaultLogFilename)
	v.SetDefault(logLevelKey, int(slog.LevelInfo))
	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// repositoryOverrides adapts the persisted key/value store to the
// orchestrator's override port. A logical repository name resolves through
// the repo-<name> key.
type repositoryOverrides struct {
	v *viper.Viper
}

// Resolve maps a logical repository name to its configured address.
func (r repositoryOverrides) Resolve(name string) (string, bool) {
	overrides := r.v.GetStringMapString(repositoryOverridesKey)
	address, ok := overrides["repo-"+strings.ToLower(name)]
	if !ok || address == "" {
		return "", false
	}
	return address, true
}

// presentMarkers returns the symbol markers the host process declares as
// already reachable, backing the skip-if-satisfied probe.
func presentMarkers(v *viper.Viper) map[string]bool {
	markers := make(map[string]bool)
	for _, marker := range v.GetStringSlice(runtimePresentKey) {
		if marker = strings.TrimSpace(marker); marker != "" {
			markers[marker] = true
		}
	}
	return markers
}
