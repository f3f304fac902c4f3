package main

import (
	"github.com/spf13/cobra"

	"devmap/internal/version"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "devmap",
	Short: "devmap - developer domain map",
	Long: `devmap aggregates developer activity signals (GitHub commits, Jira
tickets, Confluence pages) into a per-developer map of technical domains,
and answers questions over the aggregated knowledge.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("devmap version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to config file (default: .devmap/config.yaml)")
}
