package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/state"
)

// HistoryCmd implements the 'history' command. It inspects the build state
// store: the last recorded run and the stored per-page records.
type HistoryCmd struct {
	Pages  bool   `help:"Also list the recorded page states"`
	Module string `help:"Show the record of a single module"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.State.Disabled {
		return derrors.NewValidationError("state store is disabled in the configuration")
	}

	store, err := state.Open(cfg.StateDBPath())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if h.Module != "" {
		rec, found, err := store.Page(ctx, h.Module)
		if err != nil {
			return err
		}
		if !found {
			return derrors.NewValidationError("no record for module: " + h.Module)
		}
		printPageRecord(rec)
		return nil
	}

	run, found, err := store.LastRun(ctx)
	if err != nil {
		return err
	}
	if !found {
		fmt.Println("No recorded runs")
		return nil
	}

	fmt.Printf("Last run %s (%s, %s)\n", run.ID, run.Mode, run.Status)
	fmt.Printf("  started:   %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Printf("  finished:  %s\n", run.FinishedAt.Format(time.RFC3339))
	fmt.Printf("  modules:   %d (%d written, %d unchanged, %d failed)\n",
		run.ModulesTotal, run.PagesWritten, run.PagesUnchanged, run.Failures)

	if !h.Pages {
		return nil
	}

	records, err := store.Pages(ctx)
	if err != nil {
		return err
	}
	for _, rec := range records {
		printPageRecord(rec)
	}
	fmt.Printf("%d pages\n", len(records))
	return nil
}

func printPageRecord(rec state.PageRecord) {
	fmt.Printf("%-40s %-10s %s  %s\n",
		rec.Module, rec.Converter, rec.Fingerprint, rec.UpdatedAt.Format(time.RFC3339))
}
