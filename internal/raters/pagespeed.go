package raters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"pageaudit/audit"
	"pageaudit/internal/cache"
)

const (
	defaultPageSpeedEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"
	pageSpeedStrategy        = "mobile"
)

// PageSpeed queries the PageSpeed Insights API for Lighthouse metrics.
// Results are memoized per URL, so repeated audits of the same page in
// one process do not burn API quota.
type PageSpeed struct {
	client   *http.Client
	endpoint string
	apiKey   string
	memo     *cache.Cache[audit.VitalsMetrics]
}

// NewPageSpeed creates a PageSpeed rater. An empty endpoint selects the
// public Google API.
func NewPageSpeed(client *http.Client, endpoint, apiKey string) *PageSpeed {
	if endpoint == "" {
		endpoint = defaultPageSpeedEndpoint
	}

	return &PageSpeed{
		client:   client,
		endpoint: endpoint,
		apiKey:   apiKey,
		memo:     cache.New[audit.VitalsMetrics](),
	}
}

// Metrics implements audit.PerformanceRater. Every failure wraps
// audit.ErrUnavailable so the engine degrades to a placeholder card.
func (p *PageSpeed) Metrics(ctx context.Context, pageURL string) (audit.VitalsMetrics, error) {
	return p.memo.GetOrCompute(pageURL, func() (audit.VitalsMetrics, error) {
		return p.fetch(ctx, pageURL)
	})
}

func (p *PageSpeed) fetch(ctx context.Context, pageURL string) (audit.VitalsMetrics, error) {
	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("strategy", pageSpeedStrategy)
	if p.apiKey != "" {
		query.Set("key", p.apiKey)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build pagespeed request: %v", audit.ErrUnavailable, err)
	}

	response, err := p.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: pagespeed request: %v", audit.ErrUnavailable, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: pagespeed status %d", audit.ErrUnavailable, response.StatusCode)
	}

	var payload pagespeedResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode pagespeed response: %v", audit.ErrUnavailable, err)
	}

	metrics := audit.VitalsMetrics{}
	for name, item := range payload.LighthouseResult.Audits {
		if item.NumericValue != nil {
			metrics[name] = *item.NumericValue
		}
	}

	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: pagespeed response carried no audits", audit.ErrUnavailable)
	}

	return metrics, nil
}

type pagespeedResponse struct {
	LighthouseResult struct {
		Audits map[string]struct {
			NumericValue *float64 `json:"numericValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}
