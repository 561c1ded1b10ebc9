package audit

import (
	"fmt"
	"strings"
)

const maxLinkTextLength = 30

// buildLinksCard analyzes internal and external link text quality.
func buildLinksCard(sig PageSignals) *Card {
	card := NewCard("Links")

	card.AddCategory(linkCategory("Internal Links", "internal", "links.internal", sig.InternalLinks))
	card.AddCategory(linkCategory("External Links", "external", "links.external", sig.ExternalLinks))

	return card
}

func linkCategory(name, kind, checkPrefix string, links []Link) *Category {
	category := NewCategory(name)

	category.AddFinding(Neutral, fmt.Sprintf("Found %d %s link(s).", len(links), kind))
	if len(links) == 0 {
		return category
	}

	longCount := 0
	emptyCount := 0
	firstEmptyHref := ""
	texts := []string{}

	for _, link := range links {
		text := strings.TrimSpace(link.Text)
		if text == "" {
			emptyCount++
			if firstEmptyHref == "" {
				firstEmptyHref = link.Href
			}

			continue
		}

		if len([]rune(text)) > maxLinkTextLength {
			longCount++
		}

		texts = append(texts, strings.ToLower(text))
	}

	lengthCheck := checkPrefix + ".length"
	if longCount == 0 {
		category.AddFinding(Pass, render(lengthCheck, Pass))
	} else {
		category.AddFinding(Fail, render(lengthCheck, Fail, longCount, maxLinkTextLength))
		category.AddImprovement(renderImprovement(lengthCheck, maxLinkTextLength))
	}

	emptyCheck := checkPrefix + ".empty"
	if emptyCount == 0 {
		category.AddFinding(Pass, render(emptyCheck, Pass))
	} else {
		category.AddFinding(Fail, render(emptyCheck, Fail, emptyCount))
		category.AddImprovement(renderImprovement(emptyCheck, firstEmptyHref))
	}

	duplicateCheck := checkPrefix + ".duplicates"
	if hasDuplicateTexts(texts) {
		category.AddFinding(Fail, render(duplicateCheck, Fail))
		category.AddImprovement(renderImprovement(duplicateCheck))
	} else {
		category.AddFinding(Pass, render(duplicateCheck, Pass))
	}

	return category
}

func hasDuplicateTexts(texts []string) bool {
	seen := make(map[string]bool, len(texts))

	for _, text := range texts {
		if seen[text] {
			return true
		}

		seen[text] = true
	}

	return false
}
