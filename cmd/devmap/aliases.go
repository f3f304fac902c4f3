package main

import (
	"fmt"

	"devmap/internal/identity"
	"github.com/spf13/cobra"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "Manage developer alias mappings",
}

var aliasesLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load alias mappings from a YAML seed file",
	Long: `Load raw-name to canonical-name alias mappings from a YAML file
into the alias table. Existing mappings for the same raw name are replaced.

The file format is:

  aliases:
    - raw: "jdoe"
      canonical: "John Doe"
    - raw: "john.doe@example.com"
      canonical: "John Doe"`,
	Args: cobra.ExactArgs(1),
	RunE: runAliasesLoad,
}

var aliasesSetCmd = &cobra.Command{
	Use:   "set <raw> <canonical>",
	Short: "Map a single raw name to a canonical developer name",
	Args:  cobra.ExactArgs(2),
	RunE:  runAliasesSet,
}

func init() {
	rootCmd.AddCommand(aliasesCmd)
	aliasesCmd.AddCommand(aliasesLoadCmd)
	aliasesCmd.AddCommand(aliasesSetCmd)
}

func runAliasesLoad(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	count, err := identity.LoadSeedFile(args[0], a.aliases)
	if err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}

	fmt.Printf("Loaded %d alias mapping(s) from %s\n", count, args[0])
	return nil
}

func runAliasesSet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.aliases.Put(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to store alias: %w", err)
	}

	fmt.Printf("Mapped %q to %q\n", args[0], args[1])
	return nil
}
