package config

// Default values applied after unmarshalling. Kept in one place so the
// example config and the loader cannot drift apart.
const (
	DefaultExtension       = ".py"
	DefaultPackageMarker   = "__init__.py"
	DefaultEngineBinary    = "sphinx-build"
	DefaultMarkdownBuilder = "markdown"
	DefaultHTMLBuilder     = "html"
	DefaultPandocBinary    = "pandoc"
	DefaultPageExtension   = ".mdx"
	DefaultPathPrefix      = "reference"
	DefaultManifestTab     = "API Reference"
	DefaultMinBlocks       = 3
	DefaultDebounce        = "500ms"
	DefaultNATSSubject     = "apidocgen.builds"
)

func applyDefaults(c *Config) {
	if c.Package.Root == "" {
		c.Package.Root = "."
	}
	if c.Package.Extension == "" {
		c.Package.Extension = DefaultExtension
	}
	if c.Package.PackageMarker == "" {
		c.Package.PackageMarker = DefaultPackageMarker
	}
	if c.Engine.Binary == "" {
		c.Engine.Binary = DefaultEngineBinary
	}
	if c.Engine.MarkdownBuilder == "" {
		c.Engine.MarkdownBuilder = DefaultMarkdownBuilder
	}
	if c.Engine.HTMLBuilder == "" {
		c.Engine.HTMLBuilder = DefaultHTMLBuilder
	}
	if c.Engine.Project == "" {
		c.Engine.Project = c.Package.Name
	}
	if c.Convert.PandocBinary == "" {
		c.Convert.PandocBinary = DefaultPandocBinary
	}
	if c.Convert.MinBlocks == 0 {
		c.Convert.MinBlocks = DefaultMinBlocks
	}
	if c.Output.PageExtension == "" {
		c.Output.PageExtension = DefaultPageExtension
	}
	if c.Output.PathPrefix == "" {
		c.Output.PathPrefix = DefaultPathPrefix
	}
	if c.Manifest.Tab == "" {
		c.Manifest.Tab = DefaultManifestTab
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce
	}
	if c.Watch.NATSSubject == "" {
		c.Watch.NATSSubject = DefaultNATSSubject
	}
}
