package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSERPPreviewPoints(t *testing.T) {
	t.Parallel()

	optimalTitle := strings.Repeat("t", 55)
	optimalDescription := strings.Repeat("d", 100) // ~619px

	tests := []struct {
		name        string
		title       string
		description string
		want        int
	}{
		{name: "both optimal", title: optimalTitle, description: optimalDescription, want: 100},
		{name: "title acceptable short", title: strings.Repeat("t", 30), description: optimalDescription, want: 75},
		{name: "title acceptable long", title: strings.Repeat("t", 70), description: optimalDescription, want: 75},
		{name: "title at acceptable edge", title: strings.Repeat("t", 85), description: optimalDescription, want: 75},
		{name: "title past acceptable edge", title: strings.Repeat("t", 86), description: optimalDescription, want: 55},
		{name: "title too short", title: "Tiny", description: optimalDescription, want: 55},
		{name: "description acceptable short", title: optimalTitle, description: strings.Repeat("d", 50), want: 75},
		{name: "description at acceptable edge", title: optimalTitle, description: strings.Repeat("d", 203), want: 75},
		{name: "description past acceptable edge", title: optimalTitle, description: strings.Repeat("d", 204), want: 55},
		{name: "description too long", title: optimalTitle, description: strings.Repeat("d", 250), want: 55},
		{name: "present but both out of band", title: "Tiny", description: strings.Repeat("d", 250), want: 10},
		{name: "nothing present", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			preview := buildSERPPreview(PageSignals{
				FinalURL:    "https://example.com/",
				Title:       tt.title,
				Description: tt.description,
			})

			require.Equal(t, tt.want, preview.Points)
			require.Equal(t, preview.Mobile, preview.Desktop)
			require.Equal(t, "https://example.com/", preview.Mobile.URL)
		})
	}
}

func TestBuildSERPPreviewFallbackTexts(t *testing.T) {
	t.Parallel()

	preview := buildSERPPreview(PageSignals{FinalURL: "https://example.com/"})

	require.Equal(t, "No title found", preview.Mobile.Title)
	require.Equal(t, "No description found.", preview.Mobile.Description)
}

func TestBuildPageMetrics(t *testing.T) {
	t.Parallel()

	metrics := buildPageMetrics(
		PageSignals{
			WordCount:     420,
			MediaCount:    3,
			InternalLinks: []Link{{Href: "/a"}, {Href: "/b"}},
			ExternalLinks: []Link{{Href: "https://other.org"}},
		},
		FetchInfo{ElapsedMS: 120, BodyBytes: 2048},
	)

	require.Equal(t, int64(120), metrics.ResponseTimeMS)
	require.Equal(t, int64(2048), metrics.BodyBytes)
	require.Equal(t, 420, metrics.WordCount)
	require.Equal(t, 3, metrics.MediaCount)
	require.Equal(t, 2, metrics.InternalLinkCount)
	require.Equal(t, 1, metrics.ExternalLinkCount)
}
