package audit

import "strings"

const (
	minContentWordCount = 300
	// Duplicate detection is skipped below this many distinct
	// sentences: too little text to make repetition meaningful.
	minSentencesForDuplicateCheck = 5
	duplicateExampleLimit         = 80
)

// buildContentCard analyzes text content and image accessibility.
func buildContentCard(sig PageSignals) *Card {
	card := NewCard("Content & Media")

	card.AddCategory(contentCategory(sig))
	card.AddCategory(imagesCategory(sig))

	return card
}

func contentCategory(sig PageSignals) *Category {
	category := NewCategory("Content")

	lengthOK := sig.WordCount >= minContentWordCount
	category.AddFinding(verdictFor(lengthOK), render("content.length", verdictFor(lengthOK), sig.WordCount, minContentWordCount))
	if !lengthOK {
		category.AddImprovement(renderImprovement("content.length", minContentWordCount))
	}

	distinct := map[string]bool{}
	example := ""
	for _, sentence := range sig.Sentences {
		if distinct[sentence] && example == "" {
			example = sentence
		}
		distinct[sentence] = true
	}

	if len(distinct) < minSentencesForDuplicateCheck && example == "" {
		category.AddFinding(Pass, render("content.fewsentences", Pass))
		return category
	}

	if example == "" {
		category.AddFinding(Pass, render("content.duplicates", Pass))
	} else {
		category.AddFinding(Fail, render("content.duplicates", Fail))
		category.AddImprovement(renderImprovement("content.duplicates", truncate(example, duplicateExampleLimit)))
	}

	return category
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "..."
}

func imagesCategory(sig PageSignals) *Category {
	category := NewCategory("Images")

	if sig.ImageCount == 0 {
		category.AddFinding(Pass, render("images.none", Pass))
		return category
	}

	ok := sig.ImagesMissingAlt == 0
	if ok {
		category.AddFinding(Pass, render("images.alt", Pass, sig.ImageCount))
		return category
	}

	category.AddFinding(Fail, render("images.alt", Fail, sig.ImagesMissingAlt, sig.ImageCount))
	category.AddImprovement(renderImprovement("images.alt", strings.Join(sig.MissingAltExamples, ", ")))

	return category
}
