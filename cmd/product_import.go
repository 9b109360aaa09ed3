package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	productService "sareeadmin.GO/service/product"
)

var (
	importFile   string
	importBatch  int
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "products:import",
	Short: "Import products from CSV (sku,name,description,fabric,print_type,price,sale_price,stock,images)",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		a, err := newApp()
		if err != nil {
			return err
		}

		res, err := a.Products.ImportProducts(cmd.Context(), f, productService.ImportOptions{
			BatchSize: importBatch,
			DryRun:    importDryRun,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [warn] %s\n", w)
		}
		fmt.Fprintf(out, `
=== Import Report ===
CSV rows:       %d
Created:        %d
Updated:        %d
Skipped:        %d
Images:         %d
Fabrics new:    %d
Print types new:%d
Mode:           %s
Total time:     %s
  - Processing: %s
  - DB write:   %s
=====================
`, res.TotalRows, res.Created, res.Updated, res.Skipped, res.Images,
			res.FabricsCreated, res.PrintTypesCreated,
			map[bool]string{true: "dry run", false: "write"}[importDryRun],
			res.TotalTime.Round(time.Millisecond),
			res.ProcessTime.Round(time.Millisecond),
			res.DBTime.Round(time.Millisecond))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 500, "Batch size for DB operations")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
	rootCmd.AddCommand(importCmd)
}
