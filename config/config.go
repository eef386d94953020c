// ABOUTME: Configuration loader for the sizing service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/markalston/vm-migration-sizer/models"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, plan and catalog cache (default 300)
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Profile catalog
	CatalogFile     string // YAML catalog path (optional)
	CatalogURL      string // remote catalog base URL (optional, wins over file)
	CatalogAllProxy string // ssh+socks5://user@host:port?private-key=path
	CatalogTimeout  int    // seconds, default 30

	// Per-VM overhead reference (optional YAML)
	OverheadReferenceFile string
	Overheads             models.OverheadReference

	// vSphere (optional)
	VSphereHost       string
	VSphereUsername   string
	VSpherePassword   string
	VSphereDatacenter string
	VSphereInsecure   bool
	VSphereCacheTTL   int // seconds, default 300 (5 min)

	// Sizing policy defaults
	CPUOvercommit        float64
	MemoryOvercommit     float64
	ReplicationFactor    int
	RedundancyNodes      int
	EvictionThresholdPct float64
}

// VSphereConfigured returns true if vSphere credentials are set
func (c *Config) VSphereConfigured() bool {
	return c.VSphereHost != "" && c.VSphereUsername != "" && c.VSpherePassword != "" && c.VSphereDatacenter != ""
}

// DefaultPolicy returns the built-in sizing policy overlaid with the
// SIZING_* settings and the configured overhead reference.
func (c *Config) DefaultPolicy() models.SizingPolicy {
	p := models.DefaultSizingPolicy()
	p.CPUOvercommitRatio = c.CPUOvercommit
	p.MemoryOvercommitRatio = c.MemoryOvercommit
	p.ReplicationFactor = c.ReplicationFactor
	p.RedundancyNodes = c.RedundancyNodes
	p.EvictionThresholdPct = c.EvictionThresholdPct
	p.Overheads = c.Overheads
	return p
}

// CacheDuration returns CacheTTL as a time.Duration.
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load reads ENV_FILE (default .env) when present, then the environment.
// Variables already set in the environment are never overridden by the file.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		slog.Debug("Loaded environment file", "path", envFile)
	}

	defaults := models.DefaultSizingPolicy()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		CatalogFile:     os.Getenv("CATALOG_FILE"),
		CatalogURL:      ensureScheme(os.Getenv("CATALOG_URL")),
		CatalogAllProxy: os.Getenv("CATALOG_ALL_PROXY"),
		CatalogTimeout:  getEnvInt("CATALOG_TIMEOUT", 30),

		OverheadReferenceFile: os.Getenv("OVERHEAD_REFERENCE_FILE"),
		Overheads:             models.DefaultOverheadReference(),

		VSphereHost:       os.Getenv("VSPHERE_HOST"),
		VSphereUsername:   os.Getenv("VSPHERE_USERNAME"),
		VSpherePassword:   os.Getenv("VSPHERE_PASSWORD"),
		VSphereDatacenter: os.Getenv("VSPHERE_DATACENTER"),
		VSphereInsecure:   getEnvBool("VSPHERE_INSECURE", false),
		VSphereCacheTTL:   getEnvInt("VSPHERE_CACHE_TTL", 300),

		CPUOvercommit:        getEnvFloat("SIZING_CPU_OVERCOMMIT", defaults.CPUOvercommitRatio),
		MemoryOvercommit:     getEnvFloat("SIZING_MEMORY_OVERCOMMIT", defaults.MemoryOvercommitRatio),
		ReplicationFactor:    getEnvInt("SIZING_REPLICATION_FACTOR", defaults.ReplicationFactor),
		RedundancyNodes:      getEnvInt("SIZING_REDUNDANCY_NODES", defaults.RedundancyNodes),
		EvictionThresholdPct: getEnvFloat("SIZING_EVICTION_THRESHOLD_PCT", defaults.EvictionThresholdPct),
	}

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.CatalogTimeout < 1 || cfg.CatalogTimeout > 600 {
		return nil, fmt.Errorf("CATALOG_TIMEOUT must be between 1 and 600, got %d", cfg.CatalogTimeout)
	}

	if cfg.OverheadReferenceFile != "" {
		ref, err := LoadOverheadReference(cfg.OverheadReferenceFile)
		if err != nil {
			return nil, err
		}
		cfg.Overheads = ref
	}

	if err := cfg.DefaultPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("invalid SIZING_* defaults: %w", err)
	}

	return cfg, nil
}

// LoadOverheadReference reads a versioned per-VM overhead reference from YAML.
func LoadOverheadReference(path string) (models.OverheadReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.OverheadReference{}, fmt.Errorf("reading overhead reference: %w", err)
	}

	var ref models.OverheadReference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return models.OverheadReference{}, fmt.Errorf("parsing overhead reference %s: %w", path, err)
	}
	if ref.Version == "" {
		return models.OverheadReference{}, fmt.Errorf("overhead reference %s: version is required", path)
	}
	var errs []error
	for _, err := range ref.Validate() {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return models.OverheadReference{}, fmt.Errorf("overhead reference %s: %w", path, err)
	}

	slog.Info("Loaded overhead reference", "path", path, "version", ref.Version)
	return ref, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
