package domain

// BatchResult partitions a batch insert: card numbers stored by this call and
// card numbers that were not (already present, or rejected by storage).
type BatchResult struct {
	Saved      []string
	Duplicates []string
}
