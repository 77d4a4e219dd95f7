package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/urlwatch"
	"github.com/fwojciec/urlwatch/fs"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	cfg := deps.Config

	if len(cfg.Sources) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources configured.")
		return nil
	}

	for _, src := range cfg.Sources {
		store, err := fs.NewURLStore(storePath(cfg.DataDir, src))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", urlwatch.ErrorMessage(err))
			return err
		}
		st := store.Stats()
		fmt.Fprintf(deps.Stdout, "%-24s %6d urls  updated %s\n",
			src.Name, st.TotalURLs, st.LastUpdated.UTC().Format(time.RFC3339))
	}

	return nil
}
