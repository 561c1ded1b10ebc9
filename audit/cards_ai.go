package audit

import (
	"fmt"
	"strings"
)

// aiRatingThreshold is the minimum rating (out of 100) considered good.
const aiRatingThreshold = 80

// buildAICard turns an external AI critique of title and description
// into findings. Missing inputs fail with an explanation; the routine
// never errors.
func buildAICard(sig PageSignals, review AIReview) *Card {
	card := NewCard("AI Review")

	title := strings.TrimSpace(sig.Title)
	description := strings.TrimSpace(sig.Description)

	if title == "" && description == "" {
		category := NewCategory("Missing Data")
		category.AddFinding(Fail, "No title or description available for the AI review.")
		card.AddCategory(category)

		return card
	}

	card.AddCategory(aiFieldCategory("Description Review", description, review.DescRating, review.DescReason, review.DescSuggestion))
	card.AddCategory(aiFieldCategory("Title Review", title, review.TitleRating, review.TitleReason, review.TitleSuggestion))

	return card
}

func aiFieldCategory(name, original string, rating int, reason, suggestion string) *Category {
	category := NewCategory(name)

	if original == "" {
		category.AddFinding(Fail, fmt.Sprintf("No input available for the %s.", strings.ToLower(name)))
		return category
	}

	category.AddFinding(Neutral, fmt.Sprintf("Original: %q", original))

	good := rating >= aiRatingThreshold
	category.AddFinding(verdictFor(good), fmt.Sprintf("Rating: %d/100. %s", rating, reason))
	if suggestion != "" {
		category.AddImprovement(fmt.Sprintf("Suggestion: %s", suggestion))
	}

	return category
}
