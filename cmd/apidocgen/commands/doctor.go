package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/engine"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
)

// DoctorCmd implements the 'doctor' command: it probes the external
// toolchain and reports what is available.
type DoctorCmd struct{}

func (d *DoctorCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	results := engine.CheckToolchain(cfg.Engine, cfg.Convert)

	missing := 0
	for _, res := range results {
		switch {
		case res.Available:
			fmt.Printf("ok       %-12s %s (%s)\n", res.Name, res.Binary, res.Version)
		case res.Optional:
			fmt.Printf("optional %-12s %s: not available\n", res.Name, res.Binary)
		default:
			fmt.Printf("MISSING  %-12s %s: %v\n", res.Name, res.Binary, res.Err)
			missing++
		}
	}

	if missing > 0 {
		return derrors.NewValidationError(fmt.Sprintf("%d required tools missing", missing))
	}
	fmt.Println("Toolchain ready")
	return nil
}
