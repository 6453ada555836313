package config

import (
	"os"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

const exampleConfig = `# apidocgen configuration
package:
  name: mypackage          # importable package to document
  root: .                  # directory containing the package
  # extension: .py
  # package_marker: __init__.py
  # exclude:
  #   - "**/_internal/**"

engine:
  binary: sphinx-build
  # markdown_builder: markdown
  # html_builder: html
  # quiet: true
  # project: My Package
  # author: Docs Team
  # release: 0.1.0

convert:
  # pandoc_binary: pandoc
  # disable_native: false
  # disable_pandoc: false
  # disable_htmltext: false
  # disable_plain: false
  # min_blocks: 3

output:
  directory: docs/reference
  clean: false
  # page_extension: .mdx
  # path_prefix: reference
  # write_report: true

manifest:
  path: docs/docs.json
  # tab: API Reference
  display_names:
    utils: Utilities
  module_order:
    - agents
    - models
    - utils

# state:
#   directory: ~/.local/state/apidocgen
#   disabled: false

# watch:
#   debounce: 500ms
#   rebuild_interval: 1h
#   metrics_addr: ":9090"
#   nats_url: nats://localhost:4222
#   nats_subject: apidocgen.builds
`

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.NewConfigError("configuration file already exists: " + configPath + " (use --force to overwrite)")
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return derrors.WrapFileSystemError(err, "failed to write configuration file")
	}

	return nil
}
