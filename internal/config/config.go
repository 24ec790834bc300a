// Package config loads the planning-repo settings: the repo root from the
// KINETIC_ROOT environment variable and the optional kinetic.toml file
// inside it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultRoot = "~/Documents/kinetic"

// ConfigFileName is the optional settings file at the repo root
const ConfigFileName = "kinetic.toml"

// Config holds all tunable settings with their defaults applied
type Config struct {
	Root  string      `toml:"-"`
	Paths PathsConfig `toml:"paths"`
	Match MatchConfig `toml:"match"`
	Parse ParseConfig `toml:"parse"`
	Index IndexConfig `toml:"index"`
}

// PathsConfig names the managed files relative to the repo root
type PathsConfig struct {
	Ledger      string `toml:"ledger"`
	Tombstones  string `toml:"tombstones"`
	Buckets     string `toml:"buckets"`
	Core        string `toml:"core"`
	S3          string `toml:"s3"`
	Projects    string `toml:"projects"`
	ProjectsDir string `toml:"projects_dir"`
	CardsDir    string `toml:"cards_dir"`
	ViewsDir    string `toml:"views_dir"`
}

// MatchConfig tunes fuzzy identity resolution
type MatchConfig struct {
	Similarity float64 `toml:"similarity"`
	Ambiguity  float64 `toml:"ambiguity"`
}

// ParseConfig tunes document parsing
type ParseConfig struct {
	TabWidth int `toml:"tab_width"`
}

// IndexConfig names the derived sqlite index file
type IndexConfig struct {
	Path string `toml:"path"`
}

// Root returns the repo root from the KINETIC_ROOT env var, falling back
// to DefaultRoot. A leading ~ expands to the home directory.
func Root() string {
	root := os.Getenv("KINETIC_ROOT")
	if root == "" {
		root = DefaultRoot
	}
	if strings.HasPrefix(root, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			root = filepath.Join(home, root[1:])
		}
	}
	return root
}

// Load reads kinetic.toml from the root when present and applies defaults.
// A missing file is not an error; a malformed one is.
func Load(root string) (*Config, error) {
	cfg := defaults(root)

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	fill(cfg, defaults(root))
	return cfg, nil
}

func defaults(root string) *Config {
	return &Config{
		Root: root,
		Paths: PathsConfig{
			Ledger:      "Ledger.csv",
			Tombstones:  "Tombstone_Ledger.csv",
			Buckets:     "S3_Buckets.csv",
			Core:        "Core.md",
			S3:          "S3.md",
			Projects:    "Projects.md",
			ProjectsDir: "Projects",
			CardsDir:    "Cards",
			ViewsDir:    "Views",
		},
		Match: MatchConfig{Similarity: 0.70, Ambiguity: 0.05},
		Parse: ParseConfig{TabWidth: 4},
		Index: IndexConfig{Path: ".kinetic/index.db"},
	}
}

// fill restores defaults for fields the file left zero-valued
func fill(cfg, def *Config) {
	cfg.Root = def.Root
	if cfg.Paths.Ledger == "" {
		cfg.Paths.Ledger = def.Paths.Ledger
	}
	if cfg.Paths.Tombstones == "" {
		cfg.Paths.Tombstones = def.Paths.Tombstones
	}
	if cfg.Paths.Buckets == "" {
		cfg.Paths.Buckets = def.Paths.Buckets
	}
	if cfg.Paths.Core == "" {
		cfg.Paths.Core = def.Paths.Core
	}
	if cfg.Paths.S3 == "" {
		cfg.Paths.S3 = def.Paths.S3
	}
	if cfg.Paths.Projects == "" {
		cfg.Paths.Projects = def.Paths.Projects
	}
	if cfg.Paths.ProjectsDir == "" {
		cfg.Paths.ProjectsDir = def.Paths.ProjectsDir
	}
	if cfg.Paths.CardsDir == "" {
		cfg.Paths.CardsDir = def.Paths.CardsDir
	}
	if cfg.Paths.ViewsDir == "" {
		cfg.Paths.ViewsDir = def.Paths.ViewsDir
	}
	if cfg.Match.Similarity == 0 {
		cfg.Match.Similarity = def.Match.Similarity
	}
	if cfg.Match.Ambiguity == 0 {
		cfg.Match.Ambiguity = def.Match.Ambiguity
	}
	if cfg.Parse.TabWidth == 0 {
		cfg.Parse.TabWidth = def.Parse.TabWidth
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = def.Index.Path
	}
}

// LedgerPath returns the absolute ledger file path
func (c *Config) LedgerPath() string { return filepath.Join(c.Root, c.Paths.Ledger) }

// TombstonesPath returns the absolute tombstone file path
func (c *Config) TombstonesPath() string { return filepath.Join(c.Root, c.Paths.Tombstones) }

// BucketsPath returns the absolute bucket-catalog file path
func (c *Config) BucketsPath() string { return filepath.Join(c.Root, c.Paths.Buckets) }

// IndexPath returns the absolute sqlite index path
func (c *Config) IndexPath() string { return filepath.Join(c.Root, c.Index.Path) }
