package audit

import (
	"context"
	"errors"
)

// ErrUnavailable marks a collaborator result that could not be
// obtained (missing entitlement, missing API key, upstream failure).
// The report assembler converts it into a pinned placeholder card
// instead of propagating it.
var ErrUnavailable = errors.New("collaborator unavailable")

// Link is one anchor with its resolved target and visible text.
type Link struct {
	Href string
	Text string
}

// PageSignals carries the resolved, already-extracted signals of one
// page. The engine is a pure function of this value: it performs no
// I/O and tolerates every field being empty.
type PageSignals struct {
	FinalURL string

	HasTitle bool
	Title    string

	HasDescription bool
	Description    string

	DeclaredLang           string
	DetectedLang           string
	DetectedLangConfidence float64

	HasFavicon bool

	HasCanonical  bool
	CanonicalHref string

	HasCharset bool
	Charset    string

	HasViewport bool
	Viewport    string

	// OpenGraph and TwitterTags map og:/twitter: meta names to their
	// content. Nil when the page carries none.
	OpenGraph   map[string]string
	TwitterTags map[string]string

	// HeadingLevels is the document-order sequence of heading levels
	// (1 for h1 through 6 for h6).
	HeadingLevels []int

	ImageCount         int
	ImagesMissingAlt   int
	MissingAltExamples []string

	InternalLinks []Link
	ExternalLinks []Link

	WordCount int
	// Sentences are normalized (lower-cased, trimmed) sentences of
	// more than five words gathered from block-level tags.
	Sentences []string

	MediaCount int
}

// FetchInfo describes the HTTP exchange that produced the page.
type FetchInfo struct {
	FinalURL        string
	StatusCode      int
	ContentEncoding string
	// Redirects lists every intermediate URL in request order,
	// excluding the final one. Empty means no redirect occurred.
	Redirects []string
	ElapsedMS int64
	BodyBytes int64

	// Alternate host probe: the www/non-www variant of the request
	// host, and where it ended up after following redirects.
	// AlternateProbed is false when the variant could not be reached.
	AlternateHostURL  string
	AlternateFinalURL string
	AlternateProbed   bool

	// Root file probes: robots.txt at the site root, and a sitemap
	// either declared there or found at a conventional path.
	RobotsFound  bool
	SitemapFound bool
	SitemapURL   string
}

// VitalsMetrics maps Lighthouse audit names to numeric values
// (milliseconds for timing metrics, unitless for CLS).
type VitalsMetrics map[string]float64

// AIReview is an external rater's critique of the page's title and
// description, each rated 0-100.
type AIReview struct {
	TitleRating     int
	TitleReason     string
	TitleSuggestion string
	DescRating      int
	DescReason      string
	DescSuggestion  string
}

// PerformanceRater supplies Core Web Vitals metrics for a URL.
// Implementations return an error wrapping ErrUnavailable when the
// data cannot be obtained.
type PerformanceRater interface {
	Metrics(ctx context.Context, url string) (VitalsMetrics, error)
}

// ReviewRater supplies an AI critique of title and description.
type ReviewRater interface {
	Review(ctx context.Context, title, description string) (AIReview, error)
}
