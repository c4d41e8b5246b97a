package domain

// TypeCount is a per-network record count, one row of the grouped stats.
type TypeCount struct {
	CardType CardType
	Count    int
}

// Stats aggregates the inventory: total record count plus a group-by over
// card_type. Networks with no records are omitted from ByType.
type Stats struct {
	Total  int
	ByType []TypeCount
}
