package raters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"pageaudit/audit"
	"pageaudit/internal/cache"
)

// Reviewer asks an external AI service to critique a page's title and
// meta description. The service speaks a small JSON contract: one
// rating, reason and improvement per field.
type Reviewer struct {
	client   *http.Client
	endpoint string
	token    string
	memo     *cache.Cache[audit.AIReview]
}

// NewReviewer creates a Reviewer talking to the given endpoint.
func NewReviewer(client *http.Client, endpoint, token string) *Reviewer {
	return &Reviewer{
		client:   client,
		endpoint: endpoint,
		token:    token,
		memo:     cache.New[audit.AIReview](),
	}
}

// Review implements audit.ReviewRater. Every failure wraps
// audit.ErrUnavailable so the engine degrades to a placeholder card.
func (r *Reviewer) Review(ctx context.Context, title, description string) (audit.AIReview, error) {
	key := title + "\x00" + description

	return r.memo.GetOrCompute(key, func() (audit.AIReview, error) {
		return r.fetch(ctx, title, description)
	})
}

func (r *Reviewer) fetch(ctx context.Context, title, description string) (audit.AIReview, error) {
	if r.endpoint == "" {
		return audit.AIReview{}, fmt.Errorf("%w: no review endpoint configured", audit.ErrUnavailable)
	}

	body, err := json.Marshal(reviewRequest{Title: title, Description: description})
	if err != nil {
		return audit.AIReview{}, fmt.Errorf("%w: encode review request: %v", audit.ErrUnavailable, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return audit.AIReview{}, fmt.Errorf("%w: build review request: %v", audit.ErrUnavailable, err)
	}
	request.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		request.Header.Set("Authorization", "Bearer "+r.token)
	}

	response, err := r.client.Do(request)
	if err != nil {
		return audit.AIReview{}, fmt.Errorf("%w: review request: %v", audit.ErrUnavailable, err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return audit.AIReview{}, fmt.Errorf("%w: review status %d", audit.ErrUnavailable, response.StatusCode)
	}

	var payload reviewResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return audit.AIReview{}, fmt.Errorf("%w: decode review response: %v", audit.ErrUnavailable, err)
	}

	return audit.AIReview{
		TitleRating:     payload.Title.Rating,
		TitleReason:     payload.Title.Reason,
		TitleSuggestion: payload.Title.Improvement,
		DescRating:      payload.Description.Rating,
		DescReason:      payload.Description.Reason,
		DescSuggestion:  payload.Description.Improvement,
	}, nil
}

type reviewRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type reviewFieldResult struct {
	Rating      int    `json:"rating"`
	Reason      string `json:"reason"`
	Improvement string `json:"improvement"`
}

type reviewResponse struct {
	Title       reviewFieldResult `json:"title"`
	Description reviewFieldResult `json:"description"`
}
