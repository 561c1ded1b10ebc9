package audit

import (
	"math"
	"strings"
)

// Search-result preview bands. The optimal band earns full points, the
// acceptable bands (truncated but still useful) earn partial credit.
const (
	serpTitleMin           = 50
	serpTitleMax           = 60
	serpTitleAcceptableMin = 25
	serpTitleAcceptableMax = 85

	serpDescMinPx           = 500
	serpDescMaxPx           = 960
	serpDescAcceptableMinPx = 200
	serpDescAcceptableMaxPx = 1260

	serpBasePoints       = 5
	serpOptimalPoints    = 45
	serpAcceptablePoints = 20
)

// SERPSnippet is one rendered search-result entry.
type SERPSnippet struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SERPPreview is the auxiliary search-result preview section. It is
// never part of the overall score or the improvement count.
type SERPPreview struct {
	Mobile  SERPSnippet `json:"serp_mobile"`
	Desktop SERPSnippet `json:"serp_desktop"`
	Points  int         `json:"points"`
}

// PageMetrics is the auxiliary raw-metrics section, informational only.
type PageMetrics struct {
	ResponseTimeMS    int64 `json:"response_time_ms"`
	BodyBytes         int64 `json:"body_bytes"`
	WordCount         int   `json:"word_count"`
	MediaCount        int   `json:"media_count"`
	InternalLinkCount int   `json:"internal_link_count"`
	ExternalLinkCount int   `json:"external_link_count"`
}

// buildSERPPreview estimates how the page presents in search results,
// with a weighted preview score independent of the card scoring.
func buildSERPPreview(sig PageSignals) *SERPPreview {
	title := strings.TrimSpace(sig.Title)
	description := strings.TrimSpace(sig.Description)

	points := 0

	if title != "" {
		points += serpBasePoints
		length := len([]rune(title))

		switch {
		case length >= serpTitleMin && length <= serpTitleMax:
			points += serpOptimalPoints
		case length >= serpTitleAcceptableMin && length < serpTitleMin:
			points += serpAcceptablePoints
		case length > serpTitleMax && length <= serpTitleAcceptableMax:
			points += serpAcceptablePoints
		}
	} else {
		title = "No title found"
	}

	if description != "" {
		points += serpBasePoints
		px := descriptionPixels(len([]rune(description)))

		switch {
		case px >= serpDescMinPx && px <= serpDescMaxPx:
			points += serpOptimalPoints
		case px >= serpDescAcceptableMinPx && px < serpDescMinPx:
			points += serpAcceptablePoints
		case px > serpDescMaxPx && px <= serpDescAcceptableMaxPx:
			points += serpAcceptablePoints
		}
	} else {
		description = "No description found."
	}

	points = int(math.Min(float64(points), 100))

	snippet := SERPSnippet{URL: sig.FinalURL, Title: title, Description: description}

	return &SERPPreview{Mobile: snippet, Desktop: snippet, Points: points}
}

func buildPageMetrics(sig PageSignals, info FetchInfo) *PageMetrics {
	return &PageMetrics{
		ResponseTimeMS:    info.ElapsedMS,
		BodyBytes:         info.BodyBytes,
		WordCount:         sig.WordCount,
		MediaCount:        sig.MediaCount,
		InternalLinkCount: len(sig.InternalLinks),
		ExternalLinkCount: len(sig.ExternalLinks),
	}
}
