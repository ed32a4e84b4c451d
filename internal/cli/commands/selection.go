package commands

import (
	"fmt"

	"probectl/internal/config"
	"probectl/internal/registry"
)

// applySelection narrows the registry's enabled set with --suite, --skip-suite and
// --filter. Listing a suite with --suite enables it even if the catalog disables it.
func applySelection(reg *registry.Registry, flags config.Flags) error {
	if len(flags.Suites) > 0 {
		wanted := make(map[string]bool, len(flags.Suites))
		for _, id := range flags.Suites {
			if _, ok := reg.Suite(id); !ok {
				return fmt.Errorf("--suite: %w: %s", registry.ErrUnknownSuite, id)
			}
			wanted[id] = true
		}
		for _, s := range reg.Suites() {
			if err := reg.SetSuiteEnabled(s.ID, wanted[s.ID]); err != nil {
				return err
			}
		}
	}

	for _, id := range flags.SkipSuites {
		if err := reg.SetSuiteEnabled(id, false); err != nil {
			return fmt.Errorf("--skip-suite: %w", err)
		}
	}

	reg.FilterByName(flags.Filter)
	return nil
}
