// Package config holds the strongly typed gate configuration. All options
// have documented defaults; a missing or unreadable config file never
// fails a scan.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for clonegate.
type Config struct {
	// Similarity engine settings
	ShingleSize        int     `koanf:"shingle_size" json:"shingle_size" toml:"shingle_size"`
	MinTokensPerRegion int     `koanf:"min_tokens_per_region" json:"min_tokens_per_region" toml:"min_tokens_per_region"`
	JaccardWarn        float64 `koanf:"jaccard_warn" json:"jaccard_warn" toml:"jaccard_warn"`
	JaccardBlock       float64 `koanf:"jaccard_block" json:"jaccard_block" toml:"jaccard_block"`
	SameFileLineGap    int     `koanf:"same_file_line_gap" json:"same_file_line_gap" toml:"same_file_line_gap"`

	// Cluster analysis settings
	ClusterSizeWarn  int      `koanf:"cluster_size_warn" json:"cluster_size_warn" toml:"cluster_size_warn"`
	ClusterSizeBlock int      `koanf:"cluster_size_block" json:"cluster_size_block" toml:"cluster_size_block"`
	PackageMarkers   []string `koanf:"package_markers" json:"package_markers" toml:"package_markers"`

	// Scope settings
	ConsiderTestFiles bool `koanf:"consider_test_files" json:"consider_test_files" toml:"consider_test_files"`
	Workers           int  `koanf:"workers" json:"workers" toml:"workers"`

	NameDuplication NameDuplicationConfig `koanf:"name_duplication" json:"name_duplication" toml:"name_duplication"`
	Cache           CacheConfig           `koanf:"cache" json:"cache" toml:"cache"`
	Exclude         ExcludeConfig         `koanf:"exclude" json:"exclude" toml:"exclude"`

	// WaiverFile points at the YAML waiver store. Empty means no waivers.
	WaiverFile string `koanf:"waiver_file" json:"waiver_file" toml:"waiver_file"`
}

// NameDuplicationConfig holds the per-bucket symbol regression baselines.
// A baseline of 0 disables the check for that bucket.
type NameDuplicationConfig struct {
	TypeLikeBaseline      int `koanf:"type_like_baseline" json:"type_like_baseline" toml:"type_like_baseline"`
	FunctionLikeBaseline  int `koanf:"function_like_baseline" json:"function_like_baseline" toml:"function_like_baseline"`
	InterfaceLikeBaseline int `koanf:"interface_like_baseline" json:"interface_like_baseline" toml:"interface_like_baseline"`
}

// CacheConfig controls the analysis cache.
type CacheConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" toml:"enabled"`
	Path     string `koanf:"path" json:"path" toml:"path"`
	TTLHours int    `koanf:"ttl_hours" json:"ttl_hours" toml:"ttl_hours"`
}

// ExcludeConfig defines file exclusion patterns applied by the scope
// provider on top of gitignore rules.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns" json:"patterns" toml:"patterns"`
	Dirs     []string `koanf:"dirs" json:"dirs" toml:"dirs"`
}

// DefaultConfig returns a config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		ShingleSize:        7,
		MinTokensPerRegion: 60,
		JaccardWarn:        0.70,
		JaccardBlock:       0.82,
		SameFileLineGap:    5,
		ClusterSizeWarn:    2,
		ClusterSizeBlock:   3,
		PackageMarkers: []string{
			"go.mod",
			"Cargo.toml",
			"package.json",
			"pyproject.toml",
			"setup.py",
			"pom.xml",
			"build.gradle",
			"Gemfile",
			"composer.json",
		},
		ConsiderTestFiles: false,
		Workers:           8,
		NameDuplication:   NameDuplicationConfig{},
		Cache: CacheConfig{
			Enabled:  true,
			Path:     filepath.Join(".clonegate", "cache.json"),
			TTLHours: 24,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
				"*.pb.go",
				"*_generated.go",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				"dist",
				"build",
				"target",
				"__pycache__",
				".clonegate",
			},
		},
	}
}

// Load loads configuration from a file, layering it over defaults. The
// parser is chosen by extension; unknown extensions are parsed as TOML.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = koanfjson.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations and falls back to
// defaults when none loads cleanly.
func LoadOrDefault() *Config {
	names := []string{
		"clonegate.toml",
		"clonegate.yaml",
		"clonegate.yml",
		"clonegate.json",
		".clonegate.toml",
		".clonegate.yaml",
	}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}
	return DefaultConfig()
}

// Validate checks the configuration document against the embedded schema
// plus the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := validateSchema(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.JaccardWarn > c.JaccardBlock {
		return fmt.Errorf("invalid configuration: jaccard_warn (%.2f) exceeds jaccard_block (%.2f)", c.JaccardWarn, c.JaccardBlock)
	}
	if c.ClusterSizeWarn > c.ClusterSizeBlock {
		return fmt.Errorf("invalid configuration: cluster_size_warn (%d) exceeds cluster_size_block (%d)", c.ClusterSizeWarn, c.ClusterSizeBlock)
	}
	return nil
}
