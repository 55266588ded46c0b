package model

// DefaultRating is returned for labels outside the known vocabulary.
// An unrecognized label must never block survey completion, so it
// resolves to neutral instead of failing.
const DefaultRating = 3

// starRatings maps the option vocabularies used across forms to a
// canonical 1-5 scale. Question configs pick domain-appropriate words
// (frequency, cleanliness, agreement); completion logic only sees the
// numeric rating.
var starRatings = map[string]int{
	"Poor": 1, "Fair": 2, "Good": 3, "Very Good": 4, "Excellent": 5,
	"Never": 1, "Rarely": 2, "Sometimes": 3, "Always": 5,
	"Very Unclean": 1, "Unclean": 2, "Clean": 3, "Very Clean": 4, "Spotless": 5,
	"Very Bad": 1, "Bad": 2, "Average": 3,
	"Not at all": 1, "Somewhat": 2, "Mostly": 4, "Completely": 5,
	"Moderately": 3, "Very attentive": 5,
	"Very Unreasonable": 1, "Unreasonable": 2, "Reasonable": 4, "Very Reasonable": 5,
	"No": 1, "Partially": 3, "Yes": 5, "Some delay": 2,
}

// RatingForOption resolves an option label to its 1-5 rating.
// Unknown labels resolve to DefaultRating.
func RatingForOption(option string) int {
	if r, ok := starRatings[option]; ok {
		return r
	}
	return DefaultRating
}

// OptionForRating returns the option whose rating matches the target,
// falling back to positional indexing, then the first option. Used by
// star-click input where the UI selects a rating, not a label.
func OptionForRating(rating int, options []string) string {
	for _, option := range options {
		if RatingForOption(option) == rating {
			return option
		}
	}
	if rating >= 1 && rating <= len(options) {
		return options[rating-1]
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
