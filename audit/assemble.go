package audit

import (
	"errors"
	"time"
)

// ErrPremiumRequired marks a collaborator gated behind a premium
// entitlement the caller does not hold.
var ErrPremiumRequired = errors.New("premium entitlement required")

// Fixed report slots. Cards always land at the same index no matter
// which collaborator finished first.
const (
	indexMetadata  = 1
	indexContent   = 2
	indexStructure = 3
	indexLinks     = 4
	indexServer    = 5
	indexVitals    = 6
	indexAIReview  = 7
)

// Inputs is everything the engine needs, fully resolved: extracted
// page signals, the HTTP exchange, and the external rater results or
// their unavailability errors.
type Inputs struct {
	Signals PageSignals
	Fetch   FetchInfo

	Vitals    VitalsMetrics
	VitalsErr error

	Review    AIReview
	ReviewErr error
}

// BuildReport assembles the full report from resolved inputs. It is
// synchronous, side-effect-free, and deterministic: identical inputs
// produce an identical report.
func BuildReport(in Inputs, now time.Time) *Report {
	report := NewReport(in.Signals.FinalURL, now)

	buildMetadataCard(in.Signals).AddTo(report, indexMetadata)
	buildContentCard(in.Signals).AddTo(report, indexContent)
	buildStructureCard(in.Signals).AddTo(report, indexStructure)
	buildLinksCard(in.Signals).AddTo(report, indexLinks)
	buildServerCard(in.Fetch).AddTo(report, indexServer)

	if in.VitalsErr != nil {
		UnavailableCard(
			"Core Web Vitals",
			"Core Web Vitals not available",
			unavailableMessage("Core Web Vitals", in.VitalsErr),
		).AddToPinned(report, indexVitals, unavailableScore)
	} else {
		buildVitalsCard(in.Vitals).AddTo(report, indexVitals)
	}

	if in.ReviewErr != nil {
		UnavailableCard(
			"AI Review",
			"AI review not available",
			unavailableMessage("The AI review", in.ReviewErr),
		).AddToPinned(report, indexAIReview, unavailableScore)
	} else {
		buildAICard(in.Signals, in.Review).AddTo(report, indexAIReview)
	}

	report.Serp = buildSERPPreview(in.Signals)
	report.Metrics = buildPageMetrics(in.Signals, in.Fetch)

	return report
}

func unavailableMessage(feature string, err error) string {
	if errors.Is(err, ErrPremiumRequired) {
		return feature + " is only available for premium users. Please upgrade your subscription to use this feature."
	}

	return feature + " could not be retrieved from the external service. Try again later."
}
