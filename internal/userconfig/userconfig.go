package userconfig

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/2ykwang/fitmac/internal/utils"
)

const configFile = "config.yaml"

var configDir = utils.AppDataDir

// Defaults overrides command-line defaults.
type Defaults struct {
	LargeMinSize      string `yaml:"large_min_size,omitempty"`      // e.g. "100MB"
	LargeLimit        int    `yaml:"large_limit,omitempty"`
	DuplicateMinSize  string `yaml:"duplicate_min_size,omitempty"`  // e.g. "1KB"
	DuplicateMaxFiles int    `yaml:"duplicate_max_files,omitempty"`
	DuplicateRoot     string `yaml:"duplicate_root,omitempty"`
}

// UserConfig stores user preferences
type UserConfig struct {
	// ExcludedPaths maps category ID to paths never offered for cleanup
	ExcludedPaths map[string][]string `yaml:"excluded_paths,omitempty"`
	// Protected adds protection patterns (name, "prefix*", or "/keyword/")
	Protected []string `yaml:"protected,omitempty"`
	// ExtraCachePaths adds cache path templates per cache sub-category
	ExtraCachePaths map[string][]string `yaml:"extra_cache_paths,omitempty"`
	// DisabledCategories hides categories from status and scans
	DisabledCategories []string `yaml:"disabled_categories,omitempty"`
	Defaults           Defaults `yaml:"defaults,omitempty"`
}

func newUserConfig() *UserConfig {
	return &UserConfig{
		ExcludedPaths:   make(map[string][]string),
		ExtraCachePaths: make(map[string][]string),
	}
}

// Path returns the full path to the config file
func Path() string {
	return filepath.Join(configDir(), configFile)
}

// Load loads user config from disk. A missing file yields empty preferences.
func Load() (*UserConfig, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return newUserConfig(), nil
		}
		return nil, err
	}

	cfg := newUserConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ExcludedPaths == nil {
		cfg.ExcludedPaths = make(map[string][]string)
	}
	if cfg.ExtraCachePaths == nil {
		cfg.ExtraCachePaths = make(map[string][]string)
	}
	return cfg, nil
}

// Save saves user config to disk
func (c *UserConfig) Save() error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SetExcludedPaths sets excluded paths for a category
func (c *UserConfig) SetExcludedPaths(categoryID string, paths []string) {
	if len(paths) == 0 {
		delete(c.ExcludedPaths, categoryID)
		return
	}
	c.ExcludedPaths[categoryID] = paths
}

// IsExcluded checks if a path (or one of its parents) is excluded for a category
func (c *UserConfig) IsExcluded(categoryID, path string) bool {
	for _, p := range c.ExcludedPaths[categoryID] {
		p = filepath.Clean(utils.ExpandPath(p))
		if path == p || (len(path) > len(p) && path[:len(p)] == p && path[len(p)] == filepath.Separator) {
			return true
		}
	}
	return false
}

// IsCategoryDisabled reports whether the user turned a category off.
func (c *UserConfig) IsCategoryDisabled(categoryID string) bool {
	for _, d := range c.DisabledCategories {
		if d == categoryID {
			return true
		}
	}
	return false
}
