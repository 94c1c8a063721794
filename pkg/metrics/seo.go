package metrics

import (
	"math"

	"github.com/shopscope/shopscope/pkg/listing"
)

// SEO completeness rubric. The parts mirror how much of the listing page
// works for search: title text, tag slots, photos, description.
const (
	seoTitlePoints       = 30
	seoTagPoints         = 40
	seoPhotoPoints       = 20
	seoDescriptionPoints = 10

	seoTitleTargetLen       = 80  // characters that use the search real estate
	seoDescriptionTargetLen = 160 // enough for materials and use cases
)

// SEOScore rates listing-page completeness 0-100: title 30, tags 40,
// photos 20, description 10. Partial credit is proportional.
func SEOScore(l *listing.Listing) int {
	title := seoTitlePoints * benchmarkRatio(float64(len(l.Title)), seoTitleTargetLen)
	tags := seoTagPoints * benchmarkRatio(float64(len(l.Tags)), listing.MaxTags)
	photos := seoPhotoPoints * benchmarkRatio(float64(l.Photos), listing.MaxPhotos)
	desc := seoDescriptionPoints * benchmarkRatio(float64(len(l.Description)), seoDescriptionTargetLen)
	return int(math.Round(title + tags + photos + desc))
}
