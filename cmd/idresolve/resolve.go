// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/idresolve/internal/cache"
	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/internal/resolve"
	"github.com/pdiddy/idresolve/internal/source"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve every publication of a dataset file",
	Long: `Resolve reads a dataset of candidates ("cand") and commission members
("comm"), resolves each author's publications, stores the external author
ids found in "AuIds", and writes the enriched dataset back out.

Source failures are logged and never stop the run. On interrupt the
progress made so far is still written.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("in", "", "input dataset (JSON)")
	resolveCmd.Flags().String("out", "", "output dataset (default: overwrite --in)")
	resolveCmd.Flags().String("only", "", "restrict the run to one group: cand or comm")
	resolveCmd.Flags().String("cache", "", "SQLite response cache (overrides cache.path)")
	_ = resolveCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = in
	}
	only, _ := cmd.Flags().GetString("only")
	groups, err := dataset.ParseGroups(only)
	if err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("cache"); path != "" {
		viper.Set("cache.path", path)
	}

	r, closeCache, err := newResolver()
	if err != nil {
		return err
	}
	defer closeCache()

	ds, err := dataset.Load(in)
	if err != nil {
		return err
	}

	stats, runErr := r.ResolveDataset(cmd.Context(), ds, groups)
	if runErr != nil && !errors.Is(runErr, cmd.Context().Err()) {
		return runErr
	}
	if err := dataset.Save(out, ds); err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), stats)
	if runErr != nil {
		return fmt.Errorf("run interrupted, partial results written to %s: %w", out, runErr)
	}
	return nil
}

// newResolver builds a resolver from the loaded configuration. The returned
// func closes the response cache, if one was opened.
func newResolver() (*resolve.Resolver, func(), error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}

	var c source.Cache
	closeCache := func() {}
	if cfg.Cache.Path != "" {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		c = store
		closeCache = func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing cache", "err", err)
			}
		}
	}

	r, err := resolve.New(cfg, c, logger)
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return r, closeCache, nil
}

func printStats(w io.Writer, s resolve.Stats) {
	fmt.Fprintf(w, "Authors:       %d\n", s.Authors)
	fmt.Fprintf(w, "Publications:  %d (%d resolved, %d unresolved, %d skipped)\n",
		s.Publications, s.Resolved(), s.Unresolved, s.Skipped)
	fmt.Fprintf(w, "  graph/doi:   %d\n", s.ByGraphDOI)
	fmt.Fprintf(w, "  graph/title: %d\n", s.ByGraphTitle)
	fmt.Fprintf(w, "  openaire:    %d\n", s.ByOpenAccess)
	fmt.Fprintf(w, "  crossref:    %d\n", s.ByIndex)
	fmt.Fprintf(w, "Failures:      %d\n", s.Failures)
	fmt.Fprintf(w, "Cooldowns:     %d\n", s.Pauses)
}
