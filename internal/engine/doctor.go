package engine

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
)

// ProbeResult reports the availability of one external tool.
type ProbeResult struct {
	Name      string
	Binary    string
	Available bool
	Optional  bool
	Version   string
	Err       error
}

// CheckToolchain probes the external tools the pipeline may invoke.
// The engine binary is required; pandoc is optional (the chain falls back
// to built-in HTML extraction without it).
func CheckToolchain(engineCfg config.EngineConfig, convertCfg config.ConvertConfig) []ProbeResult {
	results := []ProbeResult{
		probe("documentation engine", engineCfg.Binary, false),
	}
	if !convertCfg.DisablePandoc {
		results = append(results, probe("pandoc", convertCfg.PandocBinary, true))
	}
	return results
}

func probe(name, binary string, optional bool) ProbeResult {
	result := ProbeResult{Name: name, Binary: binary, Optional: optional}

	if _, err := exec.LookPath(binary); err != nil {
		result.Err = err
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").CombinedOutput()
	if err != nil {
		result.Err = err
		return result
	}

	result.Available = true
	if line, _, found := strings.Cut(string(out), "\n"); found || line != "" {
		result.Version = strings.TrimSpace(line)
	}
	return result
}
