// Package identity resolves raw developer names to canonical identities via
// the manually curated alias table.
package identity

import (
	"devmap/internal/logging"
)

// AliasLookup is the read side of the alias table
type AliasLookup interface {
	Lookup(rawName string) (target string, found bool, err error)
}

// Normalizer resolves raw developer names. A lookup miss or failure is not
// an error: the raw name passes through unchanged. Callers apply Normalize
// exactly once per raw value; alias chains are not followed.
type Normalizer struct {
	aliases AliasLookup
	logger  *logging.Logger
}

// NewNormalizer creates a normalizer over an alias lookup
func NewNormalizer(aliases AliasLookup, logger *logging.Logger) *Normalizer {
	return &Normalizer{aliases: aliases, logger: logger}
}

// Normalize returns the canonical name for rawName, or rawName itself when
// no alias is configured or the lookup fails
func (n *Normalizer) Normalize(rawName string) string {
	target, found, err := n.aliases.Lookup(rawName)
	if err != nil {
		// Treated as "no alias configured"; the next aggregation run
		// sees the alias again anyway.
		n.logger.Debug("Alias lookup failed, using raw name", map[string]interface{}{
			"rawName": rawName,
			"error":   err.Error(),
		})
		return rawName
	}
	if !found {
		return rawName
	}
	return target
}
