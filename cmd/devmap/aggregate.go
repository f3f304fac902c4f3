package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Recompute all developer domain summaries",
	Long: `Scan every stored contribution record, resolve developer aliases,
and rebuild the per-developer domain summaries from scratch. The same
recomputation runs automatically after each ingested webhook; this command
runs it on demand.`,
	RunE: runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.engine.Recompute(cmd.Context()); err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	summaries, err := a.summaries.List()
	if err != nil {
		return err
	}
	fmt.Printf("Updated domain summaries for %d developer(s)\n", len(summaries))
	return nil
}
