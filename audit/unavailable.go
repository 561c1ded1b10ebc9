package audit

// unavailableScore keeps gated features from dragging the overall
// score down: a placeholder card is pinned at full marks.
const unavailableScore = 100

// UnavailableCard builds a placeholder card for an analysis whose
// prerequisite is unmet. It holds a single category with one
// improvement-tagged message and is meant to be pinned via
// AddToPinned(report, index, 100).
func UnavailableCard(title, categoryName, message string) *Card {
	card := NewCard(title)

	category := NewCategory(categoryName)
	category.AddImprovement(message)
	card.AddCategory(category)

	return card
}
