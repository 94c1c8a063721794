package metrics

// minVisitsForConversionAlarm is the visit count above which zero orders
// becomes a HIGH-severity finding rather than small-sample noise.
const minVisitsForConversionAlarm = 50

// DefaultComponents returns the standard health components wired with the
// given weights and benchmarks.
func DefaultComponents(w Weights, t Targets) []Component {
	return []Component{
		&VisibilityComponent{
			Weight: w.Visibility,
			Target: t.Visibility,
		},
		&CTRComponent{
			Weight: w.CTR,
			Target: t.CTR,
		},
		&ConversionComponent{
			Weight:            w.Conversion,
			Target:            t.Conversion,
			MinVisitsForAlarm: minVisitsForConversionAlarm,
		},
		&FavoriteComponent{
			Weight: w.Favorite,
			Target: t.Favorite,
		},
	}
}
