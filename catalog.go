package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a module catalog file fails validation.
var ErrInvalidCatalog = errors.New("invalid module catalog")

// maxRatedChannels bounds the channel count accepted from catalog files.
const maxRatedChannels = 64

var modelIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// builtinModules lists the I/O cards known without any catalog file.
var builtinModules = map[string]int{
	"140ACI03000": 8,
	"140ACO02000": 4,
	"140ACO13000": 8,
	"140ARI03010": 8,
	"140DDI84100": 32,
	"140DAI54000": 16,
	"140DAI55300": 32,
	"140DAO84210": 16,
	"140DAI74000": 16,
	"140DDI35300": 32,
	"140DDO35300": 32,
	"BMXDDI3202K": 32,
	"BMXDDO3202K": 32,
}

// ModuleCatalog maps a hardware model identifier to its rated channel count.
// A ModuleCatalog is immutable once built; With returns a new value.
type ModuleCatalog struct {
	channels map[string]int
}

// CatalogInfo contains metadata about a module catalog file
type CatalogInfo struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Version     string `yaml:"version,omitempty"`
	Vendor      string `yaml:"vendor,omitempty"`
}

// CatalogFile represents a complete module catalog file
type CatalogFile struct {
	CatalogInfo CatalogInfo    `yaml:"catalogInfo"`
	Modules     map[string]int `yaml:"modules"`
}

// DefaultModuleCatalog returns the catalog of built-in I/O cards.
func DefaultModuleCatalog() ModuleCatalog {
	return NewModuleCatalog(builtinModules)
}

// NewModuleCatalog builds a catalog from a copy of entries.
func NewModuleCatalog(entries map[string]int) ModuleCatalog {
	return ModuleCatalog{}.With(entries)
}

// Channels returns the rated channel count of model. Unknown models resolve
// to 0, which callers treat as a valid empty card.
func (c ModuleCatalog) Channels(model string) int {
	return c.channels[model]
}

// Known reports whether model has an entry in the catalog.
func (c ModuleCatalog) Known(model string) bool {
	_, ok := c.channels[model]
	return ok
}

// With returns a new catalog holding the receiver's entries overlaid with entries.
func (c ModuleCatalog) With(entries map[string]int) ModuleCatalog {
	merged := make(map[string]int, len(c.channels)+len(entries))
	for model, n := range c.channels {
		merged[model] = n
	}
	for model, n := range entries {
		merged[model] = n
	}
	return ModuleCatalog{channels: merged}
}

// Models returns the known model identifiers in sorted order.
func (c ModuleCatalog) Models() []string {
	models := make([]string, 0, len(c.channels))
	for model := range c.channels {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// Len returns the number of known models.
func (c ModuleCatalog) Len() int {
	return len(c.channels)
}

// ValidateModelID validates a hardware model identifier
func ValidateModelID(model string) error {
	if !modelIDPattern.MatchString(model) {
		return fmt.Errorf("model must contain only alphanumeric characters, dashes, and underscores: %q", model)
	}
	return nil
}

// Validate checks catalog metadata and every module entry
func (cf *CatalogFile) Validate() error {
	if cf.CatalogInfo.Name == "" {
		return fmt.Errorf("%w: catalog must have a name", ErrInvalidCatalog)
	}

	for model, n := range cf.Modules {
		if err := ValidateModelID(model); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		if n < 0 || n > maxRatedChannels {
			return fmt.Errorf("%w: model %s has channel count %d outside 0..%d",
				ErrInvalidCatalog, model, n, maxRatedChannels)
		}
	}

	return nil
}

// LoadCatalogFile loads and validates a single catalog file
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: failed to parse catalog YAML: %v", ErrInvalidCatalog, err)
	}

	if err := cf.Validate(); err != nil {
		return nil, err
	}

	return &cf, nil
}

// LoadCatalogDir overlays every YAML catalog file found in dir onto base.
// Files are applied in name order, so later files override earlier ones.
// A missing directory is not an error; base is returned unchanged.
func LoadCatalogDir(base ModuleCatalog, dir string) (ModuleCatalog, []string, error) {
	// No catalog directory - just the built-in cards
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return base, nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return base, nil, fmt.Errorf("failed to read catalog directory %s: %w", dir, err)
	}

	var loaded []string
	catalog := base
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		cf, err := LoadCatalogFile(path)
		if err != nil {
			return base, nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
		}
		catalog = catalog.With(cf.Modules)
		loaded = append(loaded, cf.CatalogInfo.Name)
	}

	return catalog, loaded, nil
}
