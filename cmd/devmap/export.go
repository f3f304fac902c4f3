package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export contribution records as knowledge base documents",
	Long: `Write every stored contribution record as a plain-text document
under the export directory. Documents that already exist are skipped, so
repeated runs only add records ingested since the last export.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Export directory (overrides config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	exporter := a.exporter
	if exportDir != "" {
		a.cfg.Export.Dir = exportDir
		exporter = a.newExporter()
	}

	written, err := exporter.ExportAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported %d new document(s) to %s\n", written, a.cfg.Export.Dir)
	return nil
}
