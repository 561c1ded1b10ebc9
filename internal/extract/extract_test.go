package extract

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

const fullPage = `<!DOCTYPE html>
<html lang="en">
<head>
	<title> Example &amp; Friends </title>
	<meta charset="utf-8">
	<meta name="description" content="A short description.">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<meta property="og:title" content="Example">
	<meta property="OG:image" content="/cover.png">
	<meta name="twitter:card" content="summary">
	<link rel="canonical" href="/about">
	<link rel="ICON" href="/favicon.ico">
</head>
<body>
	<h1>Welcome</h1>
	<h2>Section</h2>
	<h3>Subsection</h3>
	<p>This is the first sentence with enough words inside. Short one.</p>
	<div>
		<span>Another sentence that certainly has more than five words.</span>
	</div>
	<img src="/logo.png" alt="logo">
	<img src="/banner.png">
	<a href="/about">About us</a>
	<a href="https://www.example.com/contact">Contact</a>
	<a href="https://other.org/page">Elsewhere</a>
	<a href="mailto:hi@example.com">Mail</a>
	<a href="#top">Top</a>
</body>
</html>`

func parseFixture(t *testing.T, page string) Page {
	t.Helper()

	base, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	parsed, err := Parse([]byte(page), base)
	require.NoError(t, err)

	return parsed
}

func TestParseFullPage(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, fullPage)

	require.True(t, page.HasTitle)
	require.Equal(t, "Example & Friends", page.Title)

	require.True(t, page.HasDescription)
	require.Equal(t, "A short description.", page.Description)

	require.Equal(t, "en", page.DeclaredLang)
	require.True(t, page.HasFavicon)

	require.Equal(t, []int{1, 2, 3}, page.HeadingLevels)

	require.Equal(t, 2, page.ImageCount)
	require.Equal(t, 1, page.ImagesMissingAlt)
	require.Equal(t, []string{"/banner.png"}, page.MissingAltExamples)

	require.True(t, page.HasCanonical)
	require.Equal(t, "https://example.com/about", page.CanonicalHref)

	require.True(t, page.HasCharset)
	require.Equal(t, "utf-8", page.Charset)

	require.True(t, page.HasViewport)
	require.Equal(t, "width=device-width, initial-scale=1.0", page.Viewport)

	require.Equal(t, map[string]string{"og:title": "Example", "og:image": "/cover.png"}, page.OpenGraph)
	require.Equal(t, map[string]string{"twitter:card": "summary"}, page.TwitterTags)
}

func TestParseCharsetFromHTTPEquiv(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, `<html><head>
		<meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1">
	</head><body></body></html>`)

	require.True(t, page.HasCharset)
	require.Equal(t, "ISO-8859-1", page.Charset)
}

func TestParseClassifiesLinks(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, fullPage)

	internal := make([]string, 0, len(page.InternalLinks))
	for _, link := range page.InternalLinks {
		internal = append(internal, link.Href)
	}
	require.Equal(t, []string{"https://example.com/about", "https://www.example.com/contact"}, internal)

	require.Len(t, page.ExternalLinks, 1)
	require.Equal(t, "https://other.org/page", page.ExternalLinks[0].Href)
	require.Equal(t, "Elsewhere", page.ExternalLinks[0].Text)
}

func TestParseSentences(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, fullPage)

	require.Contains(t, page.Sentences, "this is the first sentence with enough words inside")
	require.Contains(t, page.Sentences, "another sentence that certainly has more than five words")
	require.NotContains(t, page.Sentences, "short one")
}

func TestParseNestedBlocksDoNotDuplicateSentences(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, `<html><body><div><div>
		<p>Nesting must not count this sentence more than once.</p>
	</div></div></body></html>`)

	count := 0
	for _, sentence := range page.Sentences {
		if sentence == "nesting must not count this sentence more than once" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestParseMissingEverything(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, `<html><body><p>Hi.</p></body></html>`)

	require.False(t, page.HasTitle)
	require.Empty(t, page.Title)
	require.False(t, page.HasDescription)
	require.Empty(t, page.DeclaredLang)
	require.False(t, page.HasFavicon)
	require.False(t, page.HasCanonical)
	require.False(t, page.HasCharset)
	require.False(t, page.HasViewport)
	require.Nil(t, page.OpenGraph)
	require.Nil(t, page.TwitterTags)
	require.Empty(t, page.HeadingLevels)
	require.Zero(t, page.ImageCount)
	require.Empty(t, page.InternalLinks)
	require.Empty(t, page.ExternalLinks)
	require.Empty(t, page.DetectedLang)
}

func TestParseCountsWordsAndMedia(t *testing.T) {
	t.Parallel()

	page := parseFixture(t, `<html><body>
		<p>one two three</p>
		<img src="a.png" alt="a">
		<video src="v.mp4"></video>
		<audio src="s.mp3"></audio>
		<iframe src="f.html"></iframe>
	</body></html>`)

	require.Equal(t, 3, page.WordCount)
	require.Equal(t, 4, page.MediaCount)
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	sentence := "The quick brown fox jumps over the lazy dog near the riverbank every single morning."
	page := parseFixture(t, "<html><body><p>"+sentence+"</p></body></html>")

	require.Equal(t, "en", page.DetectedLang)
	require.Greater(t, page.DetectedLangConfidence, 0.0)
}

func TestShorten(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", shorten("short", 10))
	require.Equal(t, "lo...", shorten("longer", 2))
}
