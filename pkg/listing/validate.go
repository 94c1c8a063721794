package listing

import "fmt"

// Validate checks the listing against platform constraints and counter
// consistency rules. It returns the first violation as an
// *InvalidInputError. Oversized tag text is not a validation error; the
// keyword scorer classifies it.
func (l *Listing) Validate() error {
	if l.ID == "" {
		return &InvalidInputError{Field: "id", Reason: "empty"}
	}
	if l.Title == "" {
		return &InvalidInputError{Field: "title", Reason: "empty listing " + l.ID}
	}
	if l.Price <= 0 {
		return &InvalidInputError{Field: "price", Reason: fmt.Sprintf("must be positive, got %.2f", l.Price)}
	}
	if l.Views < 0 || l.Visits < 0 || l.Favorites < 0 || l.Orders < 0 {
		return &InvalidInputError{Field: "counters", Reason: "negative counter on listing " + l.ID}
	}
	if l.Revenue < 0 {
		return &InvalidInputError{Field: "revenue", Reason: fmt.Sprintf("negative revenue %.2f", l.Revenue)}
	}
	if l.Visits > l.Views {
		return &InvalidInputError{Field: "visits", Reason: fmt.Sprintf("visits %d exceed views %d", l.Visits, l.Views)}
	}
	if l.Orders > l.Visits {
		return &InvalidInputError{Field: "orders", Reason: fmt.Sprintf("orders %d exceed visits %d", l.Orders, l.Visits)}
	}
	if len(l.Tags) > MaxTags {
		return &InvalidInputError{Field: "tags", Reason: fmt.Sprintf("%d tags exceed platform maximum %d", len(l.Tags), MaxTags)}
	}
	if l.Photos < 0 || l.Photos > MaxPhotos {
		return &InvalidInputError{Field: "photos", Reason: fmt.Sprintf("photo count %d outside 0..%d", l.Photos, MaxPhotos)}
	}
	seen := make(map[string]bool, len(l.Tags))
	for _, t := range l.Tags {
		if seen[t] {
			return &InvalidInputError{Field: "tags", Reason: "duplicate tag " + t}
		}
		seen[t] = true
	}
	return nil
}
