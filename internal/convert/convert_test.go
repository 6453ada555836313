package convert

import "git.home.luguber.info/inful/apidocgen/internal/config"

// Shared test fixtures for the convert package.

func configEngine() config.EngineConfig {
	return config.EngineConfig{
		Binary:          "sphinx-build",
		MarkdownBuilder: "markdown",
		HTMLBuilder:     "html",
	}
}

func configConvert(disablePandoc bool) config.ConvertConfig {
	return config.ConvertConfig{
		PandocBinary:  "pandoc",
		DisablePandoc: disablePandoc,
		MinBlocks:     3,
	}
}
