// ABOUTME: Sentiment domain model for the market mood index reading
// ABOUTME: Maps upstream rating strings onto five localized buckets

package domain

import "strings"

// Rating is one of the five fear & greed categories
type Rating string

const (
	RatingExtremeFear  Rating = "extreme fear"
	RatingFear         Rating = "fear"
	RatingNeutral      Rating = "neutral"
	RatingGreed        Rating = "greed"
	RatingExtremeGreed Rating = "extreme greed"
)

var ratingLabels = map[Rating]string{
	RatingExtremeFear:  "极度恐慌",
	RatingFear:         "恐慌",
	RatingNeutral:      "中性",
	RatingGreed:        "贪婪",
	RatingExtremeGreed: "极度贪婪",
}

// Ratings lists every category from most fearful to most greedy
func Ratings() []Rating {
	return []Rating{RatingExtremeFear, RatingFear, RatingNeutral, RatingGreed, RatingExtremeGreed}
}

// ParseRating maps an upstream rating string onto a Rating.
// The second return value is false when the string is not a known bucket.
func ParseRating(s string) (Rating, bool) {
	r := Rating(strings.Join(strings.Fields(strings.ToLower(s)), " "))
	_, ok := ratingLabels[r]
	return r, ok
}

// Label returns the localized display label, falling back to neutral
func (r Rating) Label() string {
	if label, ok := ratingLabels[r]; ok {
		return label
	}
	return ratingLabels[RatingNeutral]
}

// SentimentReading is a single snapshot of the index
type SentimentReading struct {
	// Score is always within [0,100]
	Score int

	Rating Rating
}

// NewSentimentReading clamps the score into [0,100]
func NewSentimentReading(score int, rating Rating) SentimentReading {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	if _, ok := ratingLabels[rating]; !ok {
		rating = RatingNeutral
	}
	return SentimentReading{Score: score, Rating: rating}
}

// NeutralReading is the default used whenever the index is unavailable
func NeutralReading() SentimentReading {
	return SentimentReading{Score: 50, Rating: RatingNeutral}
}
