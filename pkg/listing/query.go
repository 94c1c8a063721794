package listing

import "sort"

// SortedIDs returns the listing IDs in lexical order. Stages iterate
// listings through this so that repeated runs produce identical ordering.
func SortedIDs(listings map[string]*Listing) []string {
	ids := make([]string, 0, len(listings))
	for id := range listings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TagIndex maps every tag to the IDs of the listings carrying it. Each ID
// slice is in lexical order.
func TagIndex(listings map[string]*Listing) map[string][]string {
	index := make(map[string][]string)
	for _, id := range SortedIDs(listings) {
		for _, tag := range listings[id].Tags {
			index[tag] = append(index[tag], id)
		}
	}
	return index
}
