package modelroute

import "sort"

// UpgradeSafetyBuffer is the headroom required of an upgrade target:
// its context window must hold requiredTokens * UpgradeSafetyBuffer.
const UpgradeSafetyBuffer = 1.1

// NeededCapacity returns ceil(requiredTokens * UpgradeSafetyBuffer), computed in
// integers so exact multiples are not pushed up by float error.
func NeededCapacity(requiredTokens int) int {
	if requiredTokens <= 0 {
		return 0
	}
	return (requiredTokens*11 + 9) / 10
}

// upgradeCandidates returns the catalog models that can hold requiredTokens.
func upgradeCandidates(catalog *Catalog, requiredTokens int) []ModelEntry {
	need := NeededCapacity(requiredTokens)
	var out []ModelEntry
	for _, m := range catalog.models {
		if m.ContextWindow >= need {
			out = append(out, m)
		}
	}
	return out
}

// defaultUpgradePolicy prefers the current provider, then the smallest sufficient window.
// It lives here rather than in package policy to avoid an import cycle.
type defaultUpgradePolicy struct{}

func (defaultUpgradePolicy) Select(current ModelEntry, candidates []ModelEntry) []ModelEntry {
	result := make([]ModelEntry, len(candidates))
	copy(result, candidates)

	sameProvider := false
	for _, c := range result {
		if c.Provider == current.Provider {
			sameProvider = true
			break
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		ci, cj := result[i], result[j]
		if sameProvider {
			si, sj := ci.Provider == current.Provider, cj.Provider == current.Provider
			if si != sj {
				return si
			}
		}
		return ci.ContextWindow < cj.ContextWindow
	})

	return result
}
