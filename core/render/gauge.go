package render

import "market-radar/core/domain"

// band is one colored range of the gauge. Scores up to and including
// Upper fall in the band, except where Exclusive makes Upper open.
type band struct {
	Rating    domain.Rating
	Upper     int
	Exclusive bool
	Color     string
}

// Breakpoints at 25/45/55/75: [0,25) [25,45) [45,55] (55,75] (75,100]
var bands = []band{
	{Rating: domain.RatingExtremeFear, Upper: 25, Exclusive: true, Color: "#dc2626"},
	{Rating: domain.RatingFear, Upper: 45, Exclusive: true, Color: "#f97316"},
	{Rating: domain.RatingNeutral, Upper: 55, Color: "#eab308"},
	{Rating: domain.RatingGreed, Upper: 75, Color: "#84cc16"},
	{Rating: domain.RatingExtremeGreed, Upper: 100, Color: "#16a34a"},
}

func bandFor(score int) band {
	for _, b := range bands {
		if score < b.Upper || (!b.Exclusive && score == b.Upper) {
			return b
		}
	}
	return bands[len(bands)-1]
}

// ColorForScore returns the gauge color of the band containing score
func ColorForScore(score int) string {
	return bandFor(score).Color
}

// BandRating returns the rating whose band contains score
func BandRating(score int) domain.Rating {
	return bandFor(score).Rating
}

// axisStops returns the ECharts axisLine color stops, [fraction, color] pairs
func axisStops() [][]interface{} {
	stops := make([][]interface{}, len(bands))
	for i, b := range bands {
		stops[i] = []interface{}{float64(b.Upper) / 100, b.Color}
	}
	return stops
}
