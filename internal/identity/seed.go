package identity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasWriter is the write side of the alias table
type AliasWriter interface {
	Put(rawName, targetName string) error
}

// SeedFile is the on-disk format for curated alias entries:
//
//	aliases:
//	  - raw: "rkumar"
//	    canonical: "Ravi Kumar"
type SeedFile struct {
	Aliases []SeedEntry `yaml:"aliases"`
}

// SeedEntry maps one raw developer name to its canonical identity
type SeedEntry struct {
	Raw       string `yaml:"raw"`
	Canonical string `yaml:"canonical"`
}

// LoadSeedFile parses a YAML alias file and writes every entry to the alias
// table. Returns the number of entries written.
func LoadSeedFile(path string, aliases AliasWriter) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read alias file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse alias file: %w", err)
	}

	written := 0
	for i, entry := range seed.Aliases {
		if entry.Raw == "" || entry.Canonical == "" {
			return written, fmt.Errorf("alias entry %d: raw and canonical are required", i)
		}
		if err := aliases.Put(entry.Raw, entry.Canonical); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
