package policy

import (
	"sort"

	"github.com/ineyio/modelroute"
)

// StrictProviderPolicy only upgrades within the current model's provider,
// smallest sufficient window first. Conversations on a provider without a
// larger model are left on their current model.
type StrictProviderPolicy struct{}

var _ modelroute.UpgradePolicy = (*StrictProviderPolicy)(nil)

// Select drops candidates from other providers and orders the rest by context window.
func (p *StrictProviderPolicy) Select(current modelroute.ModelEntry, candidates []modelroute.ModelEntry) []modelroute.ModelEntry {
	var result []modelroute.ModelEntry
	for _, c := range candidates {
		if c.Provider == current.Provider {
			result = append(result, c)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ContextWindow < result[j].ContextWindow
	})

	return result
}
