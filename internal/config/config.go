// Package config loads and validates the apidocgen YAML configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Package  PackageConfig  `yaml:"package"`
	Engine   EngineConfig   `yaml:"engine"`
	Convert  ConvertConfig  `yaml:"convert"`
	Output   OutputConfig   `yaml:"output"`
	Manifest ManifestConfig `yaml:"manifest"`
	State    StateConfig    `yaml:"state"`
	Watch    WatchConfig    `yaml:"watch"`
}

// PackageConfig describes the source package to document.
type PackageConfig struct {
	Name          string   `yaml:"name"`
	Root          string   `yaml:"root,omitempty"`           // directory containing the package, defaults to "."
	Extension     string   `yaml:"extension,omitempty"`      // source file extension, defaults to ".py"
	PackageMarker string   `yaml:"package_marker,omitempty"` // file marking a directory as a package
	Exclude       []string `yaml:"exclude,omitempty"`        // glob patterns relative to the package dir
}

// EngineConfig describes the external documentation engine.
type EngineConfig struct {
	Binary          string   `yaml:"binary,omitempty"`           // defaults to "sphinx-build"
	MarkdownBuilder string   `yaml:"markdown_builder,omitempty"` // defaults to "markdown"
	HTMLBuilder     string   `yaml:"html_builder,omitempty"`     // defaults to "html"
	Quiet           *bool    `yaml:"quiet,omitempty"`            // pass -q to the engine, defaults to true
	ExtraArgs       []string `yaml:"extra_args,omitempty"`
	Project         string   `yaml:"project,omitempty"` // project name rendered into the engine config
	Author          string   `yaml:"author,omitempty"`
	Release         string   `yaml:"release,omitempty"`
}

// QuietEnabled reports whether the engine runs quietly. Unset means quiet.
func (c EngineConfig) QuietEnabled() bool {
	return c.Quiet == nil || *c.Quiet
}

// ConvertConfig controls the converter fallback chain. Each converter can
// be disabled individually; the zero value enables all of them.
type ConvertConfig struct {
	PandocBinary    string `yaml:"pandoc_binary,omitempty"` // defaults to "pandoc"
	DisableNative   bool   `yaml:"disable_native,omitempty"`
	DisablePandoc   bool   `yaml:"disable_pandoc,omitempty"`
	DisableHTMLText bool   `yaml:"disable_htmltext,omitempty"`
	DisablePlain    bool   `yaml:"disable_plain,omitempty"`
	MinBlocks       int    `yaml:"min_blocks,omitempty"` // minimum substantial content blocks per page
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory     string `yaml:"directory"`                // content directory for generated pages
	PageExtension string `yaml:"page_extension,omitempty"` // defaults to ".mdx"
	Clean         bool   `yaml:"clean"`                    // remove stale pages before build
	PathPrefix    string `yaml:"path_prefix,omitempty"`    // manifest page path prefix, defaults to "reference"
	WriteReport   bool   `yaml:"write_report,omitempty"`   // write BUILD_REPORT.md alongside pages
}

// ManifestConfig describes the site navigation manifest.
type ManifestConfig struct {
	Path         string            `yaml:"path"`
	Tab          string            `yaml:"tab,omitempty"` // navigation tab to rewrite, defaults to "API Reference"
	DisplayNames map[string]string `yaml:"display_names,omitempty"`
	ModuleOrder  []string          `yaml:"module_order,omitempty"`
}

// StateConfig configures the best-effort build-state store.
type StateConfig struct {
	Directory string `yaml:"directory,omitempty"` // defaults to XDG state dir
	Disabled  bool   `yaml:"disabled,omitempty"`
}

// WatchConfig configures continuous mode.
type WatchConfig struct {
	Debounce        string `yaml:"debounce,omitempty"`         // e.g. "500ms"
	RebuildInterval string `yaml:"rebuild_interval,omitempty"` // periodic full rebuild, e.g. "1h"; empty disables
	MetricsAddr     string `yaml:"metrics_addr,omitempty"`     // e.g. ":9090"; empty disables
	NATSURL         string `yaml:"nats_url,omitempty"`         // empty disables event publishing
	NATSSubject     string `yaml:"nats_subject,omitempty"`     // defaults to "apidocgen.builds"
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; never overrides existing process env.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.NewConfigError("configuration file not found: " + configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.WrapConfigError(err, "failed to read config file")
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, derrors.WrapConfigError(err, "failed to unmarshal config")
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for required fields and consistency.
func (c *Config) Validate() error {
	if c.Package.Name == "" {
		return derrors.NewConfigError("package.name is required")
	}
	if c.Output.Directory == "" {
		return derrors.NewConfigError("output.directory is required")
	}
	if c.Convert.MinBlocks < 0 {
		return derrors.NewValidationError("convert.min_blocks must not be negative")
	}
	if c.Output.PageExtension != "" && c.Output.PageExtension[0] != '.' {
		return derrors.NewValidationError("output.page_extension must start with a dot")
	}
	return nil
}

// StateDBPath resolves the path of the SQLite state database.
func (c *Config) StateDBPath() string {
	dir := c.State.Directory
	if dir == "" {
		dir = filepath.Join(xdg.StateHome, "apidocgen")
	}
	return filepath.Join(dir, "state.db")
}
