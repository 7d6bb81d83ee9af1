// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/idresolve/internal/dataset"
	"github.com/pdiddy/idresolve/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write resolved publications as a CSL-YAML bibliography",
	Long: `Export reads a dataset and writes one CSL-YAML entry per distinct DOI,
naming every author the publication is filed under. Publications without
a DOI are left out.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("in", "", "input dataset (JSON)")
	exportCmd.Flags().String("out", "-", "output file, - for stdout")
	exportCmd.Flags().String("only", "", "restrict the export to one group: cand or comm")
	_ = exportCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	only, _ := cmd.Flags().GetString("only")
	groups, err := dataset.ParseGroups(only)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(in)
	if err != nil {
		return err
	}
	items := export.Collect(ds, groups)

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, items); err != nil {
		return fmt.Errorf("writing CSL: %w", err)
	}
	logger.Info("exported publications", "count", len(items))
	return nil
}
