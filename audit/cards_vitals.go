package audit

import "math"

// Core Web Vitals pass thresholds (Lighthouse documented values).
const (
	lcpThresholdSeconds        = 2.5
	fcpThresholdSeconds        = 1.8
	tbtThresholdMS             = 200.0
	clsThreshold               = 0.1
	speedIndexThresholdSeconds = 4.3
)

type vitalSpec struct {
	metric    string
	category  string
	text      string
	threshold float64
	unit      string
	// scale divides the raw Lighthouse value into display units.
	scale float64
}

var vitalSpecs = []vitalSpec{
	{
		metric:    "largest-contentful-paint",
		category:  "Largest Contentful Paint",
		text:      "Largest Contentful Paint (LCP) indicates how quickly the largest visible content on the page is fully loaded and visible.",
		threshold: lcpThresholdSeconds,
		unit:      "s",
		scale:     1000,
	},
	{
		metric:    "first-contentful-paint",
		category:  "First Contentful Paint",
		text:      "First Contentful Paint (FCP) measures how quickly the first visible content appears on the page.",
		threshold: fcpThresholdSeconds,
		unit:      "s",
		scale:     1000,
	},
	{
		metric:    "total-blocking-time",
		category:  "Total Blocking Time",
		text:      "Total Blocking Time (TBT) reflects how much time the page was unresponsive to user input.",
		threshold: tbtThresholdMS,
		unit:      "ms",
		scale:     1,
	},
	{
		metric:    "cumulative-layout-shift",
		category:  "Cumulative Layout Shift",
		text:      "Cumulative Layout Shift (CLS) evaluates the visual stability of the page by measuring unexpected layout shifts.",
		threshold: clsThreshold,
		unit:      " ",
		scale:     1,
	},
	{
		metric:    "speed-index",
		category:  "Speed Index",
		text:      "Speed Index measures how quickly the visible parts of the page are populated during loading.",
		threshold: speedIndexThresholdSeconds,
		unit:      "s",
		scale:     1000,
	},
}

// buildVitalsCard evaluates each Core Web Vitals metric against its
// threshold and renders it additionally as a neutral decline chart.
// A metric absent from the map fails and gets no chart.
func buildVitalsCard(metrics VitalsMetrics) *Card {
	card := NewCard("Core Web Vitals")

	for _, spec := range vitalSpecs {
		category := NewCategory(spec.category)

		raw, ok := metrics[spec.metric]
		if !ok {
			category.AddFinding(Fail, spec.text)
			card.AddCategory(category)

			continue
		}

		value := raw / spec.scale
		category.AddFinding(verdictFor(value <= spec.threshold), spec.text)
		category.AddChartFinding("decline", round2(spec.threshold), round2(spec.threshold*1.5), spec.unit, round2(value))
		card.AddCategory(category)
	}

	return card
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
