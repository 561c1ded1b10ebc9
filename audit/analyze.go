package audit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pageaudit/internal/extract"
	"pageaudit/internal/fetcher"
	"pageaudit/internal/limiter"
	"pageaudit/internal/urlutil"
)

const defaultUserAgent = "pageaudit/1.0"

// Options configures a page analysis.
// Delay and RPS control rate limiting; RPS overrides Delay.
// Retries is the number of retries after the first attempt.
// Premium unlocks the Core Web Vitals and AI Review cards; without it
// both slots carry their pinned placeholder.
// IndentJSON affects formatting only.
type Options struct {
	URL         string
	Retries     int
	Delay       time.Duration
	Timeout     time.Duration
	RPS         float64
	UserAgent   string
	Premium     bool
	IndentJSON  bool
	HTTPClient  *http.Client
	Clock       limiter.Timer
	Performance PerformanceRater
	Reviewer    ReviewRater
}

// Analyze audits a page and returns a JSON report as bytes.
// The output always ends with a newline.
func Analyze(ctx context.Context, opts Options) ([]byte, error) {
	report, err := Run(ctx, opts)
	if err != nil {
		return nil, err
	}

	return marshalReport(report, opts.IndentJSON), nil
}

// Run fetches the page, extracts its signals, queries the external
// raters and assembles the report. An unreachable or error-status page
// yields an error, never a low-scoring report.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.URL == "" {
		return nil, errors.New("url is required")
	}
	if opts.HTTPClient == nil {
		return nil, errors.New("http client is required")
	}

	baseURL, err := parseRootURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid root url: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = limiter.NewClock()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	rateLimiter := limiter.NewWithTimer(rateInterval(opts), clock)
	fetch := fetcher.New(
		opts.HTTPClient,
		opts.Timeout,
		userAgent,
		rateLimiter,
		opts.Retries,
		opts.Delay,
		clock,
	)

	started := clock.Now()

	result, err := fetch.Fetch(ctx, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	if result.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch page: %s", statusText(result.StatusCode))
	}

	elapsed := clock.Now().Sub(started)

	finalURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parse final url: %w", err)
	}

	page, err := extract.Parse(result.Body, finalURL)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	in := Inputs{
		Signals: signalsFromPage(page, result.FinalURL),
		Fetch: FetchInfo{
			FinalURL:        result.FinalURL,
			StatusCode:      result.StatusCode,
			ContentEncoding: result.Header.Get("Content-Encoding"),
			Redirects:       result.Redirects,
			ElapsedMS:       elapsed.Milliseconds(),
			BodyBytes:       int64(len(result.Body)),
		},
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		probeRootFiles(groupCtx, fetch, finalURL, &in.Fetch)

		return nil
	})

	if alternate, ok := urlutil.AlternateHost(finalURL); ok {
		in.Fetch.AlternateHostURL = alternate
		group.Go(func() error {
			probe, probeErr := fetch.Fetch(groupCtx, alternate)
			if probeErr == nil && probe.StatusCode < http.StatusBadRequest {
				in.Fetch.AlternateProbed = true
				in.Fetch.AlternateFinalURL = probe.FinalURL
			}

			return nil
		})
	}

	switch {
	case !opts.Premium:
		in.VitalsErr = ErrPremiumRequired
	case opts.Performance == nil:
		in.VitalsErr = ErrUnavailable
	default:
		group.Go(func() error {
			in.Vitals, in.VitalsErr = opts.Performance.Metrics(groupCtx, result.FinalURL)

			return nil
		})
	}

	switch {
	case !opts.Premium:
		in.ReviewErr = ErrPremiumRequired
	case opts.Reviewer == nil:
		in.ReviewErr = ErrUnavailable
	default:
		group.Go(func() error {
			in.Review, in.ReviewErr = opts.Reviewer.Review(groupCtx, in.Signals.Title, in.Signals.Description)

			return nil
		})
	}

	// Collaborator failures degrade to placeholder cards, never to an
	// analysis error, so the wait result carries nothing of its own.
	_ = group.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return BuildReport(in, clock.Now()), nil
}

func signalsFromPage(page extract.Page, finalURL string) PageSignals {
	internal := make([]Link, 0, len(page.InternalLinks))
	for _, link := range page.InternalLinks {
		internal = append(internal, Link{Href: link.Href, Text: link.Text})
	}

	external := make([]Link, 0, len(page.ExternalLinks))
	for _, link := range page.ExternalLinks {
		external = append(external, Link{Href: link.Href, Text: link.Text})
	}

	return PageSignals{
		FinalURL:               finalURL,
		HasTitle:               page.HasTitle,
		Title:                  page.Title,
		HasDescription:         page.HasDescription,
		Description:            page.Description,
		DeclaredLang:           page.DeclaredLang,
		DetectedLang:           page.DetectedLang,
		DetectedLangConfidence: page.DetectedLangConfidence,
		HasFavicon:             page.HasFavicon,
		HasCanonical:           page.HasCanonical,
		CanonicalHref:          page.CanonicalHref,
		HasCharset:             page.HasCharset,
		Charset:                page.Charset,
		HasViewport:            page.HasViewport,
		Viewport:               page.Viewport,
		OpenGraph:              page.OpenGraph,
		TwitterTags:            page.TwitterTags,
		HeadingLevels:          page.HeadingLevels,
		ImageCount:             page.ImageCount,
		ImagesMissingAlt:       page.ImagesMissingAlt,
		MissingAltExamples:     page.MissingAltExamples,
		InternalLinks:          internal,
		ExternalLinks:          external,
		WordCount:              page.WordCount,
		Sentences:              page.Sentences,
		MediaCount:             page.MediaCount,
	}
}

// probeRootFiles checks for robots.txt at the site root, then for a
// sitemap: first the one robots.txt declares, then conventional paths.
func probeRootFiles(ctx context.Context, fetch *fetcher.Fetcher, pageURL *url.URL, info *FetchInfo) {
	root := pageURL.Scheme + "://" + pageURL.Host

	var declared string
	if robots, err := fetch.Fetch(ctx, root+"/robots.txt"); err == nil && robots.StatusCode == http.StatusOK {
		info.RobotsFound = true
		declared = sitemapFromRobots(robots.Body)
	}

	for _, candidate := range []string{declared, root + "/sitemap.xml", root + "/sitemap_index.xml"} {
		if candidate == "" {
			continue
		}

		result, err := fetch.Fetch(ctx, candidate)
		if err != nil || result.StatusCode != http.StatusOK {
			continue
		}

		info.SitemapFound = true
		info.SitemapURL = candidate

		return
	}
}

func sitemapFromRobots(body []byte) string {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			return strings.TrimSpace(line[len("sitemap:"):])
		}
	}

	return ""
}

func rateInterval(opts Options) time.Duration {
	if opts.RPS > 0 {
		interval := time.Duration(float64(time.Second) / opts.RPS)
		if interval <= 0 {
			return time.Nanosecond
		}
		return interval
	}

	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	if delay > 0 {
		return delay
	}

	return 0
}

func parseRootURL(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.New("missing scheme or host")
	}
	if parsed.Path == "/" {
		parsed.Path = ""
		parsed.RawPath = ""
	}
	parsed.Fragment = ""
	return parsed, nil
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}
	return text
}
