// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idresolve/internal/resolve"
	"github.com/pdiddy/idresolve/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve a single publication",
	Long: `Lookup runs the resolution strategy for one publication given on the
command line and prints the outcome and the enriched record. Use --doi for
a publication whose DOI is known, or --title and --year otherwise.`,
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("surname", "", "author surname")
	lookupCmd.Flags().String("given", "", "author given name")
	lookupCmd.Flags().String("doi", "", "publication DOI")
	lookupCmd.Flags().String("title", "", "publication title")
	lookupCmd.Flags().Int("year", 0, "publication year")
	_ = lookupCmd.MarkFlagRequired("surname")
	lookupCmd.MarkFlagsOneRequired("doi", "title")
	lookupCmd.MarkFlagsRequiredTogether("title", "year")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	surname, _ := cmd.Flags().GetString("surname")
	given, _ := cmd.Flags().GetString("given")
	doi, _ := cmd.Flags().GetString("doi")
	title, _ := cmd.Flags().GetString("title")
	year, _ := cmd.Flags().GetInt("year")

	r, closeCache, err := newResolver()
	if err != nil {
		return err
	}
	defer closeCache()

	name := types.FullName{surname, given}
	pub := types.Publication{DOI: doi, Title: title, Year: year}
	gov := resolve.NewGovernor(r.IndexQuota, r.IndexCooldown, r.Sleep)

	res, err := r.ResolvePublication(cmd.Context(), gov, name, &pub)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Outcome: %s\n", res.Outcome)
	if res.AuthorID != "" {
		fmt.Fprintf(w, "Author id: %s\n", res.AuthorID)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "Source error: %v\n", e)
	}
	data, err := json.MarshalIndent(pub, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling publication: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
