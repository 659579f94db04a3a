package policy

import (
	"sort"

	"github.com/ineyio/modelroute"
)

// SmallestWindowPolicy picks the smallest sufficient context window regardless
// of provider. Ties keep catalog order.
type SmallestWindowPolicy struct{}

var _ modelroute.UpgradePolicy = (*SmallestWindowPolicy)(nil)

// Select orders candidates by context window ascending.
func (p *SmallestWindowPolicy) Select(_ modelroute.ModelEntry, candidates []modelroute.ModelEntry) []modelroute.ModelEntry {
	result := make([]modelroute.ModelEntry, len(candidates))
	copy(result, candidates)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ContextWindow < result[j].ContextWindow
	})

	return result
}
