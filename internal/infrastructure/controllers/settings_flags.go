package controllers

import (
	"context"

	"github.com/sethvargo/go-githubactions"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/manifestwatch/internal/domain/entities"
)

const (
	flagConfig            = "config"
	flagManifestURL       = "manifest-url"
	flagCacheKeyPrefix    = "cache-key-prefix"
	flagDisableCacheWrite = "disable-cache-write"
	flagKeyPolicy         = "key-policy"
	flagCacheBackend      = "cache-backend"
	flagCacheDir          = "cache-dir"
	flagManifestPath      = "manifest-path"
	flagOutput            = "output"
	flagFetchTimeout      = "fetch-timeout"

	githubActionsEnv = "GITHUB_ACTIONS"
)

// addOutputFlags adds the flags shared by every command publishing a result.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagOutput, entities.OutputAuto, "Where to publish the result (auto, github, console)")
	cmd.Flags().Duration(flagFetchTimeout, entities.DefaultFetchTimeout, "Timeout of each manifest download")
}

// addCacheFlags adds the flags of commands reading and writing the snapshot cache.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagManifestURL, "", "URL or path of the version manifest (default: Mojang v2 manifest)")
	cmd.Flags().String(flagCacheKeyPrefix, "", "Prefix shared by every stored snapshot key")
	cmd.Flags().Bool(flagDisableCacheWrite, false, "Compare without storing the current manifest")
	cmd.Flags().String(flagKeyPolicy, "", "Snapshot key policy (timestamp, content-hash)")
	cmd.Flags().String(flagCacheBackend, "", "Snapshot cache backend (filesystem, sqlite, s3, minio)")
	cmd.Flags().String(flagCacheDir, "", "Directory of the filesystem cache backend")
	cmd.Flags().String(flagManifestPath, "", "Also write the current manifest to this path")
}

// loadSettings assembles the settings of one invocation, in increasing precedence:
// defaults, config file, GitHub Actions inputs, explicitly set flags.
func loadSettings(cmd *cobra.Command, getenv func(key string) string) (entities.Settings, error) {
	settings := entities.DefaultSettings()

	configPath, _ := cmd.Flags().GetString(flagConfig)
	if configPath == "" {
		if found, findErr := entities.FindConfigFile(); findErr == nil {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
		loaded, err := entities.NewSettings(configPath)
		if err != nil {
			return settings, err
		}
		settings = loaded
	}

	if getenv(githubActionsEnv) == "true" {
		action := githubactions.New(githubactions.WithGetenv(getenv))
		if err := settings.ApplyInputs(action.GetInput); err != nil {
			return settings, err
		}
	}

	applyFlags(cmd, &settings)

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// applyFlags overlays only the flags present on cmd and explicitly set by the user.
func applyFlags(cmd *cobra.Command, settings *entities.Settings) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed(flagManifestURL) {
		settings.ManifestURL, _ = flags.GetString(flagManifestURL)
	}
	if changed(flagCacheKeyPrefix) {
		settings.CacheKeyPrefix, _ = flags.GetString(flagCacheKeyPrefix)
	}
	if changed(flagDisableCacheWrite) {
		settings.DisableCacheWrite, _ = flags.GetBool(flagDisableCacheWrite)
	}
	if changed(flagKeyPolicy) {
		policy, _ := flags.GetString(flagKeyPolicy)
		settings.KeyPolicy = entities.KeyPolicy(policy)
	}
	if changed(flagCacheBackend) {
		settings.Cache.Backend, _ = flags.GetString(flagCacheBackend)
	}
	if changed(flagCacheDir) {
		settings.Cache.Directory, _ = flags.GetString(flagCacheDir)
	}
	if changed(flagManifestPath) {
		settings.ManifestPath, _ = flags.GetString(flagManifestPath)
	}
	if changed(flagOutput) {
		settings.Output, _ = flags.GetString(flagOutput)
	}
	if changed(flagFetchTimeout) {
		settings.FetchTimeout, _ = flags.GetDuration(flagFetchTimeout)
	}
}

// commandContext returns the context Cobra executes cmd with, or a background context
// when cmd is invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
