package modelroute

// UpgradePolicy orders upgrade candidates when a conversation outgrows its model.
type UpgradePolicy interface {
	// Select orders candidates by preference (most preferred first). Every candidate
	// already has enough capacity; returning an empty slice means no upgrade.
	Select(current ModelEntry, candidates []ModelEntry) []ModelEntry
}
