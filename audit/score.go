package audit

import "math"

// computeScore is the unweighted pass rate over all scoring-eligible
// findings: 100*P/(P+F), unrounded. Neutral and chart findings are
// excluded. A card with no eligible findings scores 0, not 100.
func (c *Card) computeScore() float64 {
	var pass, fail int

	for _, category := range c.Categories {
		for _, finding := range category.Findings {
			if finding.Improvement || finding.Chart != nil {
				continue
			}

			switch finding.Verdict {
			case Pass:
				pass++
			case Fail:
				fail++
			}
		}
	}

	total := pass + fail
	if total == 0 {
		return 0
	}

	return 100 * float64(pass) / float64(total)
}

// OverallScore is the rounded mean of all selectable card scores,
// each card weighted equally regardless of how many findings it has.
// Rounding is half away from zero. A report with no cards scores 0.
func (r *Report) OverallScore() int {
	var sum float64
	var count int

	for _, card := range r.Cards() {
		if !card.Selectable {
			continue
		}

		sum += card.Score
		count++
	}

	if count == 0 {
		return 0
	}

	return int(math.Round(sum / float64(count)))
}

// ImprovementCount is the total number of Fail findings across every
// selectable card. Improvements and charts never count; insertion
// order is irrelevant.
func (r *Report) ImprovementCount() int {
	count := 0

	for _, card := range r.Cards() {
		if !card.Selectable {
			continue
		}

		for _, category := range card.Categories {
			for _, finding := range category.Findings {
				if finding.Improvement || finding.Chart != nil {
					continue
				}

				if finding.Verdict == Fail {
					count++
				}
			}
		}
	}

	return count
}
