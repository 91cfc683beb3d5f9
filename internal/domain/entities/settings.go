package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultManifestURL    = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"
	DefaultCacheKeyPrefix = "mc-update-manifest-"
	DefaultCacheDirectory = ".cache"
	DefaultSQLitePath     = ".cache/snapshots.db"
	DefaultFetchTimeout   = 30 * time.Second

	BackendFilesystem = "filesystem"
	BackendSQLite     = "sqlite"
	BackendS3         = "s3"
	BackendMinio      = "minio"

	OutputAuto    = "auto"
	OutputGitHub  = "github"
	OutputConsole = "console"
)

// Action input names, kept compatible with the published action.
const (
	InputManifestURL       = "version-manifest-url"
	InputCacheKeyPrefix    = "cache-base-key"
	InputDisableCacheWrite = "disable-cache-write"
	InputKeyPolicy         = "key-policy"
	InputCacheBackend      = "cache-backend"
	InputCacheDirectory    = "cache-directory"
	InputManifestPath      = "manifest-path"
)

// ErrUnknownBackend is returned when the configured cache backend is not supported.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Settings is the configuration of a single run. It is assembled once, validated,
// and then handed by value to every collaborator.
type Settings struct {
	ManifestURL       string        `yaml:"manifest_url"`
	CacheKeyPrefix    string        `yaml:"cache_key_prefix"`
	DisableCacheWrite bool          `yaml:"disable_cache_write"`
	KeyPolicy         KeyPolicy     `yaml:"key_policy"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	ManifestPath      string        `yaml:"manifest_path"` // Optional workspace copy of the current manifest
	Output            string        `yaml:"output"`        // "auto", "github" or "console"
	Cache             CacheSettings `yaml:"cache"`
}

// CacheSettings selects and configures the snapshot cache backend.
type CacheSettings struct {
	Backend        string `yaml:"backend"`
	Directory      string `yaml:"directory"`   // filesystem
	SQLitePath     string `yaml:"sqlite_path"` // sqlite
	Bucket         string `yaml:"bucket"`      // s3, minio
	Region         string `yaml:"region"`      // s3
	Endpoint       string `yaml:"endpoint"`    // s3 (optional), minio
	ObjectPrefix   string `yaml:"object_prefix"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	AccessKey      string `yaml:"access_key"` // Inline, ${ENV_VAR}, or file path
	SecretKey      string `yaml:"secret_key"` // Inline, ${ENV_VAR}, or file path
	UseSSL         bool   `yaml:"use_ssl"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ManifestURL:    DefaultManifestURL,
		CacheKeyPrefix: DefaultCacheKeyPrefix,
		KeyPolicy:      KeyPolicyTimestamp,
		FetchTimeout:   DefaultFetchTimeout,
		Output:         OutputAuto,
		Cache: CacheSettings{
			Backend:    BackendFilesystem,
			Directory:  DefaultCacheDirectory,
			SQLitePath: DefaultSQLitePath,
			UseSSL:     true,
		},
	}
}

// NewSettings reads a YAML configuration file on top of the defaults and resolves
// credential references. The result still has to be validated.
func NewSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return settings, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Cache.AccessKey = resolveSecret(settings.Cache.AccessKey)
	settings.Cache.SecretKey = resolveSecret(settings.Cache.SecretKey)
	return settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", ".github"}

	patterns := []string{
		".manifestwatch.yaml",
		".manifestwatch.yml",
		"manifestwatch.yaml",
		"manifestwatch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ApplyInputs overlays non-empty CI step inputs. getInput follows the GitHub Actions
// convention of returning an empty string for unset inputs.
func (s *Settings) ApplyInputs(getInput func(name string) string) error {
	if v := getInput(InputManifestURL); v != "" {
		s.ManifestURL = v
	}
	if v := getInput(InputCacheKeyPrefix); v != "" {
		s.CacheKeyPrefix = v
	}
	if v := getInput(InputDisableCacheWrite); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s input %q: %w", InputDisableCacheWrite, v, err)
		}
		s.DisableCacheWrite = disabled
	}
	if v := getInput(InputKeyPolicy); v != "" {
		s.KeyPolicy = KeyPolicy(v)
	}
	if v := getInput(InputCacheBackend); v != "" {
		s.Cache.Backend = v
	}
	if v := getInput(InputCacheDirectory); v != "" {
		s.Cache.Directory = v
	}
	if v := getInput(InputManifestPath); v != "" {
		s.ManifestPath = v
	}
	return nil
}

// Validate checks for required configuration values.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.ManifestURL) == "" {
		return errors.New("manifest_url is required")
	}
	if s.CacheKeyPrefix == "" {
		return errors.New("cache_key_prefix is required")
	}
	if !s.KeyPolicy.Valid() {
		return fmt.Errorf(
			"key_policy must be %q or %q, got %q",
			KeyPolicyTimestamp, KeyPolicyContentHash, string(s.KeyPolicy),
		)
	}
	if s.FetchTimeout < 0 {
		return errors.New("fetch_timeout must not be negative")
	}
	switch s.Output {
	case OutputAuto, OutputGitHub, OutputConsole:
	default:
		return fmt.Errorf("output must be one of auto, github, console, got %q", s.Output)
	}

	return s.Cache.validate()
}

func (c CacheSettings) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.Directory == "" {
			return errors.New("cache.directory is required for the filesystem backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("cache.sqlite_path is required for the sqlite backend")
		}
	case BackendS3:
		if c.Bucket == "" {
			return errors.New("cache.bucket is required for the s3 backend")
		}
	case BackendMinio:
		if c.Endpoint == "" || c.Bucket == "" {
			return errors.New("cache.endpoint and cache.bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the secret from the file.
func resolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
