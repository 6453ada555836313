package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/module"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Since       string `help:"Only list modules changed within this window (e.g. 24h)"`
	ChangedOnly bool   `name:"changed-only" help:"Only list modules with uncommitted git changes"`
}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	disc := module.NewDiscovery(cfg.Package)

	var mods []module.Module
	switch {
	case d.ChangedOnly:
		mods, err = disc.ChangedInWorktree()
	case d.Since != "":
		window, perr := time.ParseDuration(d.Since)
		if perr != nil {
			return derrors.NewValidationError("invalid --since duration: " + d.Since)
		}
		var all []module.Module
		all, err = disc.All()
		if err == nil {
			mods = module.ChangedSince(all, window, time.Now())
		}
	default:
		mods, err = disc.All()
	}
	if err != nil {
		return err
	}

	for _, mod := range mods {
		fmt.Printf("%-8s %s\n", mod.Kind, mod.Name)
	}
	fmt.Printf("%d modules\n", len(mods))
	return nil
}
