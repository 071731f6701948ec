package domain

// Group is the set of pages sharing one payload.
type Group struct {
	// Payload is the group identity, matched exactly.
	Payload string

	// Pages are ordered by Sequence ascending.
	Pages []PageItem
}

// Grouping partitions a page collection into three disjoint views.
type Grouping struct {
	// Groups are ordered by numeric-aware collation of their payloads.
	Groups []Group

	// Unresolved holds pages that were attempted and failed.
	Unresolved []PageItem

	// Pending holds pages not yet resolved by a finished attempt.
	Pending []PageItem
}

// Find returns the group with the given payload.
func (g *Grouping) Find(payload string) (*Group, bool) {
	for i := range g.Groups {
		if g.Groups[i].Payload == payload {
			return &g.Groups[i], true
		}
	}
	return nil, false
}

// PageCount returns the number of pages across all three views.
func (g *Grouping) PageCount() int {
	n := len(g.Unresolved) + len(g.Pending)
	for _, grp := range g.Groups {
		n += len(grp.Pages)
	}
	return n
}

// Stats summarises a page collection.
type Stats struct {
	Total      int
	Decoded    int
	Unresolved int
	Pending    int
	Groups     int
}

// Percent returns how many pages have finished an attempt, as 0-100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return (s.Decoded + s.Unresolved) * 100 / s.Total
}
