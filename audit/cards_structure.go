package audit

import (
	"fmt"
	"strings"
)

// buildStructureCard analyzes the heading hierarchy and the mobile
// viewport declaration.
func buildStructureCard(sig PageSignals) *Card {
	card := NewCard("Page Structure")
	card.AddCategory(headingsCategory(sig))
	card.AddCategory(viewportCategory(sig))

	return card
}

func headingsCategory(sig PageSignals) *Category {
	category := NewCategory("Headings")

	if len(sig.HeadingLevels) == 0 {
		category.AddFinding(Fail, render("headings.none", Fail))
		category.AddImprovement(renderImprovement("headings.none"))

		return category
	}

	h1Count := 0
	for _, level := range sig.HeadingLevels {
		if level == 1 {
			h1Count++
		}
	}

	if h1Count == 1 {
		category.AddFinding(Pass, render("headings.h1", Pass))
	} else {
		category.AddFinding(Fail, render("headings.h1", Fail, h1Count))
		category.AddImprovement(renderImprovement("headings.h1"))
	}

	violation := headingOrderViolation(sig.HeadingLevels)
	if violation == "" {
		category.AddFinding(Pass, render("headings.order", Pass))
	} else {
		category.AddFinding(Fail, render("headings.order", Fail, violation))
		category.AddImprovement(renderImprovement("headings.order"))
	}

	return category
}

func viewportCategory(sig PageSignals) *Category {
	category := NewCategory("Viewport")

	content := strings.TrimSpace(sig.Viewport)
	if !sig.HasViewport || content == "" {
		category.AddFinding(Fail, render("viewport", Fail))
		category.AddImprovement(renderImprovement("viewport"))

		return category
	}

	category.AddFinding(Pass, render("viewport", Pass, content))
	if strings.Contains(strings.ReplaceAll(content, " ", ""), "user-scalable=no") {
		category.AddFinding(Fail, render("viewport.scalable", Fail))
		category.AddImprovement(renderImprovement("viewport.scalable"))
	}

	return category
}

// headingOrderViolation reports the first place where heading levels
// deepen by more than one step. The document must open with an H1.
func headingOrderViolation(levels []int) string {
	previous := 0

	for _, level := range levels {
		if level > previous+1 {
			if previous == 0 {
				return fmt.Sprintf("page starts with H%d", level)
			}

			return fmt.Sprintf("H%d followed by H%d", previous, level)
		}

		previous = level
	}

	return ""
}
